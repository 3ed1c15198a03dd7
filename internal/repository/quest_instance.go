package repository

import (
	"context"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestInstanceRepository interface {
	Create(ctx context.Context, instance *entity.QuestInstance) error
	GetByID(ctx context.Context, id string) (*entity.QuestInstance, error)
	GetLatestByQuestID(ctx context.Context, questID string) (*entity.QuestInstance, error)
	IncreaseClaimedCount(ctx context.Context, id string) error
}

type questInstanceRepository struct{}

func NewQuestInstanceRepository() *questInstanceRepository {
	return &questInstanceRepository{}
}

func (r *questInstanceRepository) Create(ctx context.Context, instance *entity.QuestInstance) error {
	return xcontext.DB(ctx).Create(instance).Error
}

func (r *questInstanceRepository) GetByID(ctx context.Context, id string) (*entity.QuestInstance, error) {
	var result entity.QuestInstance
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questInstanceRepository) GetLatestByQuestID(
	ctx context.Context, questID string,
) (*entity.QuestInstance, error) {
	var result entity.QuestInstance
	err := xcontext.DB(ctx).
		Where("quest_id=?", questID).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questInstanceRepository) IncreaseClaimedCount(ctx context.Context, id string) error {
	return xcontext.DB(ctx).
		Model(&entity.QuestInstance{}).
		Where("id=?", id).
		Update("claimed_count", gorm.Expr("claimed_count+1")).Error
}
