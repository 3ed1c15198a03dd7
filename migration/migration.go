package migration

import (
	"context"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Quest{},
		&entity.QuestInstance{},
		&entity.ClaimRequest{},
		&entity.ReadingLog{},
		&entity.SocialActivity{},
		&entity.Subscription{},
		&entity.QuizAnswer{},
		&entity.Blockchain{},
		&entity.BlockchainTransaction{},
	)
}
