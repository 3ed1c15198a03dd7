package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/crypto"
)

// SampleQuest creates a quest with randomized fields. Non-zero fields of init
// overwrite the sample before insert.
func SampleQuest(ctx context.Context, init *entity.Quest) (entity.Quest, error) {
	questRepo := repository.NewQuestRepository()

	sample := &entity.Quest{
		Base:            entity.Base{ID: uuid.NewString()},
		Title:           crypto.GenerateRandomAlphabet(12),
		Recurrence:      entity.Once,
		RequirementType: entity.RequirementSubscribe,
		RequirementData: entity.Map{},
		RewardXp:        10,
		Chain:           Chain.Name,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := questRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
