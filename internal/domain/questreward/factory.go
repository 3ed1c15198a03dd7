package questreward

import (
	"context"
	"time"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
)

type Factory struct {
	userRepo         repository.UserRepository
	claimRequestRepo repository.ClaimRequestRepository
	activityRepo     repository.ActivityRepository
}

func NewFactory(
	userRepo repository.UserRepository,
	claimRequestRepo repository.ClaimRequestRepository,
	activityRepo repository.ActivityRepository,
) Factory {
	return Factory{
		userRepo:         userRepo,
		claimRequestRepo: claimRequestRepo,
		activityRepo:     activityRepo,
	}
}

// NewRequirement builds the typed requirement for a quest. The switch is
// exhaustive over the requirement enum, an unknown variant is a bad quest
// definition, not a claimable one.
func (f Factory) NewRequirement(
	ctx context.Context, quest *entity.Quest, windowStart time.Time,
) (Requirement, error) {
	switch quest.RequirementType {
	case entity.RequirementRead:
		return newReadRequirement(ctx, f, quest.RequirementData, windowStart)

	case entity.RequirementComment:
		return newCommentRequirement(ctx, f, quest.RequirementData, windowStart)

	case entity.RequirementSubscribe:
		return newSubscribeRequirement(ctx, f)

	case entity.RequirementLike:
		return newLikeRequirement(ctx, f, quest.RequirementData, windowStart)

	case entity.RequirementQuiz:
		return newQuizRequirement(ctx, f, quest, windowStart)

	case entity.RequirementPool:
		return newPoolRequirement(ctx, f, windowStart)
	}

	return nil, errInvalidRequirement(quest.RequirementType)
}
