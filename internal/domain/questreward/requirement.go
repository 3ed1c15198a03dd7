package questreward

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/errorx"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"
)

func errInvalidRequirement(t entity.RequirementType) error {
	return fmt.Errorf("invalid requirement type %s", t)
}

// Read Requirement
type readRequirement struct {
	ComicID string `mapstructure:"comic_id" structs:"comic_id"`

	windowStart time.Time
	factory     Factory
}

func newReadRequirement(
	ctx context.Context, factory Factory, data entity.Map, windowStart time.Time,
) (*readRequirement, error) {
	req := readRequirement{factory: factory, windowStart: windowStart}
	if err := mapstructure.Decode(map[string]any(data), &req); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	return &req, nil
}

func (r *readRequirement) Check(ctx context.Context, userID string) (bool, error) {
	count, err := r.factory.activityRepo.CountReadingLogs(ctx, userID, r.ComicID, r.windowStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count reading logs: %v", err)
		return false, errorx.Unknown
	}

	return count > 0, nil
}

// Comment Requirement
type commentRequirement struct {
	TargetID string `mapstructure:"target_id" structs:"target_id"`

	windowStart time.Time
	factory     Factory
}

func newCommentRequirement(
	ctx context.Context, factory Factory, data entity.Map, windowStart time.Time,
) (*commentRequirement, error) {
	req := commentRequirement{factory: factory, windowStart: windowStart}
	if err := mapstructure.Decode(map[string]any(data), &req); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	return &req, nil
}

func (r *commentRequirement) Check(ctx context.Context, userID string) (bool, error) {
	count, err := r.factory.activityRepo.CountSocialActivities(
		ctx, userID, entity.ActivityComment, r.TargetID, r.windowStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return false, errorx.Unknown
	}

	return count > 0, nil
}

// Subscribe Requirement
//
// Subscription is a standing state, not an event, so no window applies.
type subscribeRequirement struct {
	factory Factory
}

func newSubscribeRequirement(_ context.Context, factory Factory) (*subscribeRequirement, error) {
	return &subscribeRequirement{factory: factory}, nil
}

func (r *subscribeRequirement) Check(ctx context.Context, userID string) (bool, error) {
	ok, err := r.factory.activityRepo.HasActiveSubscription(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check subscription: %v", err)
		return false, errorx.Unknown
	}

	return ok, nil
}

// Like Requirement
type likeRequirement struct {
	TargetID string `mapstructure:"target_id" structs:"target_id"`

	windowStart time.Time
	factory     Factory
}

func newLikeRequirement(
	ctx context.Context, factory Factory, data entity.Map, windowStart time.Time,
) (*likeRequirement, error) {
	req := likeRequirement{factory: factory, windowStart: windowStart}
	if err := mapstructure.Decode(map[string]any(data), &req); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	return &req, nil
}

func (r *likeRequirement) Check(ctx context.Context, userID string) (bool, error) {
	count, err := r.factory.activityRepo.CountSocialActivities(
		ctx, userID, entity.ActivityLike, r.TargetID, r.windowStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count likes: %v", err)
		return false, errorx.Unknown
	}

	return count > 0, nil
}

// Quiz Requirement
type quizRequirement struct {
	Answer string `mapstructure:"answer" structs:"answer"`

	questID     string
	windowStart time.Time
	factory     Factory
}

func newQuizRequirement(
	ctx context.Context, factory Factory, quest *entity.Quest, windowStart time.Time,
) (*quizRequirement, error) {
	req := quizRequirement{factory: factory, questID: quest.ID, windowStart: windowStart}
	if err := mapstructure.Decode(map[string]any(quest.RequirementData), &req); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if req.Answer == "" {
		return nil, errors.New("quiz quest has no configured answer")
	}

	return &req, nil
}

func (r *quizRequirement) Check(ctx context.Context, userID string) (bool, error) {
	answer, err := r.factory.activityRepo.GetLastQuizAnswer(ctx, userID, r.questID, r.windowStart)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get quiz answer: %v", err)
		return false, errorx.Unknown
	}

	return strings.EqualFold(strings.TrimSpace(answer.Answer), strings.TrimSpace(r.Answer)), nil
}

// Pool Requirement
//
// Any submitted entry inside the window satisfies the pool.
type poolRequirement struct {
	windowStart time.Time
	factory     Factory
}

func newPoolRequirement(
	_ context.Context, factory Factory, windowStart time.Time,
) (*poolRequirement, error) {
	return &poolRequirement{factory: factory, windowStart: windowStart}, nil
}

func (r *poolRequirement) Check(ctx context.Context, userID string) (bool, error) {
	count, err := r.factory.activityRepo.CountSocialActivities(
		ctx, userID, entity.ActivityPoolEntry, "", r.windowStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count pool entries: %v", err)
		return false, errorx.Unknown
	}

	return count > 0, nil
}
