package questreward

import (
	"context"
	"errors"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/errorx"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// CheckUnlockCondition gates quest visibility, not reward claim. The two
// predicates are optional and combined with AND, an empty condition is
// vacuously true.
func (f Factory) CheckUnlockCondition(
	ctx context.Context, quest *entity.Quest, userID string,
) (bool, error) {
	if quest.UnlockMinLevel > 0 {
		user, err := f.userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return false, errorx.Unknown
		}

		if user.Level < quest.UnlockMinLevel {
			return false, nil
		}
	}

	if quest.UnlockQuestID.Valid {
		_, err := f.claimRequestRepo.GetLastSucceeded(ctx, userID, quest.UnlockQuestID.String)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot get prerequisite claim: %v", err)
			return false, errorx.Unknown
		}
	}

	return true, nil
}
