package questreward

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/dateutil"
	"github.com/inkquest-lab/backend/pkg/errorx"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Evaluator computes the current reward status of a user on a quest. The
// status is always recomputed from stored facts, never cached.
type Evaluator struct {
	factory      Factory
	instanceRepo repository.QuestInstanceRepository
}

func NewEvaluator(factory Factory, instanceRepo repository.QuestInstanceRepository) *Evaluator {
	return &Evaluator{factory: factory, instanceRepo: instanceRepo}
}

// Unlocked tells whether the quest is visible to the user at all. A locked
// quest cannot be claimed regardless of its requirement.
func (e *Evaluator) Unlocked(ctx context.Context, quest *entity.Quest, userID string) (bool, error) {
	return e.factory.CheckUnlockCondition(ctx, quest, userID)
}

// ActiveInstance resolves the active repeat instance of a daily quest. It
// returns nil without error for once quests. A daily quest whose instance of
// the current day has not been created yet is not claimable.
func (e *Evaluator) ActiveInstance(
	ctx context.Context, quest *entity.Quest,
) (*entity.QuestInstance, error) {
	if quest.Recurrence != entity.Daily {
		return nil, nil
	}

	instance, err := e.instanceRepo.GetLatestByQuestID(ctx, quest.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get latest instance of quest %s: %v", quest.ID, err)
		return nil, errorx.Unknown
	}

	if instance.CreatedAt.Before(dateutil.BeginningOfDay(time.Now())) {
		return nil, nil
	}

	return instance, nil
}

// Evaluate computes the reward status in fixed order: slot exhaustion first,
// then an already-recorded reward, then the requirement itself.
func (e *Evaluator) Evaluate(
	ctx context.Context, quest *entity.Quest, userID string,
) (RewardStatus, error) {
	instance, err := e.ActiveInstance(ctx, quest)
	if err != nil {
		return NotSatisfy, err
	}

	if quest.Recurrence == entity.Daily && instance == nil {
		return NotSatisfy, nil
	}

	claimedCount := quest.ClaimedCount
	if instance != nil {
		claimedCount = instance.ClaimedCount
	}

	if quest.SlotLimit > 0 && claimedCount >= quest.SlotLimit {
		return OutOfSlot, nil
	}

	if userID != "" {
		instanceID := sql.NullString{}
		if instance != nil {
			instanceID = sql.NullString{Valid: true, String: instance.ID}
		}

		_, err := e.factory.claimRequestRepo.GetLastRewarded(ctx, userID, quest.ID, instanceID)
		if err == nil {
			return Claimed, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get last rewarded claim: %v", err)
			return NotSatisfy, errorx.Unknown
		}
	}

	windowStart := quest.CreatedAt
	if instance != nil {
		windowStart = instance.CreatedAt
	}

	ok, err := e.CheckRequirement(ctx, quest, userID, windowStart)
	if err != nil {
		return NotSatisfy, err
	}

	if !ok {
		return NotSatisfy, nil
	}

	return CanClaimReward, nil
}

// CheckRequirement re-runs the requirement variant check against the given
// window. The batch processor re-checks with it right before the broadcast,
// a requirement that held at intake may have regressed since.
func (e *Evaluator) CheckRequirement(
	ctx context.Context, quest *entity.Quest, userID string, windowStart time.Time,
) (bool, error) {
	requirement, err := e.factory.NewRequirement(ctx, quest, windowStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot build requirement of quest %s: %v", quest.ID, err)
		return false, errorx.Unknown
	}

	return requirement.Check(ctx, userID)
}
