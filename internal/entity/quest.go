package entity

import (
	"database/sql"

	"github.com/inkquest-lab/backend/pkg/enum"
)

type RecurrenceType string

var (
	Once  = enum.New(RecurrenceType("once"))
	Daily = enum.New(RecurrenceType("daily"))
)

type RequirementType string

var (
	RequirementRead      = enum.New(RequirementType("read"))
	RequirementComment   = enum.New(RequirementType("comment"))
	RequirementSubscribe = enum.New(RequirementType("subscribe"))
	RequirementLike      = enum.New(RequirementType("like"))
	RequirementQuiz      = enum.New(RequirementType("quiz"))
	RequirementPool      = enum.New(RequirementType("pool"))
)

type Quest struct {
	Base

	Title      string
	Recurrence RecurrenceType

	// RequirementType selects the requirement variant, RequirementData holds
	// its payload and is decoded into the matching typed struct.
	RequirementType RequirementType
	RequirementData Map

	// Reward specification. RewardXp of zero means no experience reward, an
	// empty RewardNftImage means no mint.
	RewardXp       uint64
	RewardNftName  string
	RewardNftImage string

	// SlotLimit bounds how many times this quest (or each of its daily
	// instances) may grant its reward. Non-positive means unlimited.
	SlotLimit    int
	ClaimedCount int

	Chain      string
	Blockchain Blockchain `gorm:"foreignKey:Chain;references:Name"`

	// Visibility condition, both optional and combined with AND.
	UnlockMinLevel int
	UnlockQuestID  sql.NullString
}
