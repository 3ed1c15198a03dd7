package questreward

import (
	"context"

	"github.com/inkquest-lab/backend/pkg/enum"
)

type RewardStatus string

var (
	// OutOfSlot means the quest or its active instance has granted its
	// reward the maximum number of times.
	OutOfSlot = enum.New(RewardStatus("out_of_slot"))

	// NotSatisfy means the user has not fulfilled the requirement inside the
	// current window.
	NotSatisfy = enum.New(RewardStatus("not_satisfy"))

	// Claimed means a reward is already recorded for this user on the active
	// instance.
	Claimed = enum.New(RewardStatus("claimed"))

	CanClaimReward = enum.New(RewardStatus("can_claim_reward"))
)

// Requirement checks whether a user fulfilled a quest requirement inside the
// quest window. One implementation per requirement variant.
type Requirement interface {
	Check(ctx context.Context, userID string) (bool, error)
}
