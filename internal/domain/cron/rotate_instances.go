package cron

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/dateutil"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

// RotateInstancesCronJob opens the day's instance for every daily quest.
// Without the instance of the current day a daily quest is not claimable.
type RotateInstancesCronJob struct {
	questRepo         repository.QuestRepository
	questInstanceRepo repository.QuestInstanceRepository
}

func NewRotateInstancesCronJob(
	questRepo repository.QuestRepository,
	questInstanceRepo repository.QuestInstanceRepository,
) *RotateInstancesCronJob {
	return &RotateInstancesCronJob{
		questRepo:         questRepo,
		questInstanceRepo: questInstanceRepo,
	}
}

func (job *RotateInstancesCronJob) Do(ctx context.Context) {
	quests, err := job.questRepo.GetByRecurrence(ctx, entity.Daily)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily quests: %v", err)
		return
	}

	today := dateutil.BeginningOfDay(time.Now())
	for _, quest := range quests {
		latest, err := job.questInstanceRepo.GetLatestByQuestID(ctx, quest.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get latest instance of quest %s: %v", quest.ID, err)
			continue
		}

		if latest != nil && !latest.CreatedAt.Before(today) {
			continue
		}

		err = job.questInstanceRepo.Create(ctx, &entity.QuestInstance{
			Base:    entity.Base{ID: uuid.NewString()},
			QuestID: quest.ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot create instance of quest %s: %v", quest.ID, err)
		}
	}
}

func (job *RotateInstancesCronJob) RunNow() bool {
	return true
}

func (job *RotateInstancesCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
