package entity

import (
	"time"

	"github.com/inkquest-lab/backend/pkg/enum"
)

// ReadingLog is written by the reader (out of scope) whenever a user finishes
// a chapter. The evaluator only counts entries inside the quest window.
type ReadingLog struct {
	Base

	UserID  string
	ComicID string
}

type SocialActivityType string

var (
	ActivityComment   = enum.New(SocialActivityType("comment"))
	ActivityLike      = enum.New(SocialActivityType("like"))
	ActivityPoolEntry = enum.New(SocialActivityType("pool_entry"))
)

type SocialActivity struct {
	Base

	UserID   string
	TargetID string
	Type     SocialActivityType
}

type Subscription struct {
	Base

	UserID    string
	Active    bool
	ExpiredAt time.Time
}

type QuizAnswer struct {
	Base

	UserID  string
	QuestID string
	Answer  string
}
