package repository

import (
	"context"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestRepository interface {
	Create(ctx context.Context, quest *entity.Quest) error
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetByRecurrence(ctx context.Context, recurrence entity.RecurrenceType) ([]entity.Quest, error)
	IncreaseClaimedCount(ctx context.Context, id string) error
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, quest *entity.Quest) error {
	return xcontext.DB(ctx).Create(quest).Error
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	var result entity.Quest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questRepository) GetByRecurrence(
	ctx context.Context, recurrence entity.RecurrenceType,
) ([]entity.Quest, error) {
	var result []entity.Quest
	if err := xcontext.DB(ctx).Find(&result, "recurrence=?", recurrence).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) IncreaseClaimedCount(ctx context.Context, id string) error {
	return xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id).
		Update("claimed_count", gorm.Expr("claimed_count+1")).Error
}
