package entity

// QuestInstance is a dated instantiation of a daily quest with its own slot
// counter. A separate scheduled job creates one instance per eligible day; the
// instance created at or after today's midnight is the active one.
type QuestInstance struct {
	Base

	QuestID string
	Quest   Quest `gorm:"foreignKey:QuestID"`

	ClaimedCount int
}
