package entity

import (
	"database/sql"

	"github.com/inkquest-lab/backend/pkg/enum"
)

type ClaimRequestStatus string

var (
	ClaimCreated   = enum.New(ClaimRequestStatus("created"))
	ClaimSucceeded = enum.New(ClaimRequestStatus("succeeded"))
	ClaimFailed    = enum.New(ClaimRequestStatus("failed"))
)

// ClaimRequest records a user's intent to receive a quest reward. It is
// inserted at intake with status created and resolved by the batch processor.
// Succeeded and failed are terminal, a resolved request is never reopened.
type ClaimRequest struct {
	Base

	// UniqueKey is deterministic per (user, quest, active instance). The
	// unique index is what makes intake idempotent.
	UniqueKey string `gorm:"uniqueIndex"`

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	QuestID string
	Quest   Quest `gorm:"foreignKey:QuestID"`

	InstanceID sql.NullString

	Status ClaimRequestStatus

	// Log holds the audit trail of the terminal outcome, including the raw
	// broadcast error on failure.
	Log    string
	TxHash string
}
