package repository

import (
	"context"
	"time"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

type ActivityRepository interface {
	CreateReadingLog(ctx context.Context, log *entity.ReadingLog) error
	CreateSocialActivity(ctx context.Context, activity *entity.SocialActivity) error
	CreateSubscription(ctx context.Context, sub *entity.Subscription) error
	CreateQuizAnswer(ctx context.Context, answer *entity.QuizAnswer) error

	CountReadingLogs(ctx context.Context, userID, comicID string, since time.Time) (int64, error)
	CountSocialActivities(ctx context.Context, userID string, t entity.SocialActivityType, targetID string, since time.Time) (int64, error)
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
	GetLastQuizAnswer(ctx context.Context, userID, questID string, since time.Time) (*entity.QuizAnswer, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) CreateReadingLog(ctx context.Context, log *entity.ReadingLog) error {
	return xcontext.DB(ctx).Create(log).Error
}

func (r *activityRepository) CreateSocialActivity(ctx context.Context, activity *entity.SocialActivity) error {
	return xcontext.DB(ctx).Create(activity).Error
}

func (r *activityRepository) CreateSubscription(ctx context.Context, sub *entity.Subscription) error {
	return xcontext.DB(ctx).Create(sub).Error
}

func (r *activityRepository) CreateQuizAnswer(ctx context.Context, answer *entity.QuizAnswer) error {
	return xcontext.DB(ctx).Create(answer).Error
}

func (r *activityRepository) CountReadingLogs(
	ctx context.Context, userID, comicID string, since time.Time,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.ReadingLog{}).
		Where("user_id=? AND created_at>=?", userID, since)

	if comicID != "" {
		tx = tx.Where("comic_id=?", comicID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *activityRepository) CountSocialActivities(
	ctx context.Context, userID string, t entity.SocialActivityType, targetID string, since time.Time,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.SocialActivity{}).
		Where("user_id=? AND type=? AND created_at>=?", userID, t, since)

	if targetID != "" {
		tx = tx.Where("target_id=?", targetID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *activityRepository) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Subscription{}).
		Where("user_id=? AND active=? AND expired_at>?", userID, true, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *activityRepository) GetLastQuizAnswer(
	ctx context.Context, userID, questID string, since time.Time,
) (*entity.QuizAnswer, error) {
	var result entity.QuizAnswer
	err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=? AND created_at>=?", userID, questID, since).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
