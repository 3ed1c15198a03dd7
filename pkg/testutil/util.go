package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkquest-lab/backend/config"
	"github.com/inkquest-lab/backend/migration"
	"github.com/inkquest-lab/backend/pkg/logger"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Kafka: config.KafkaConfigs{
			ClaimResolvedTopic: "claim_resolved",
		},
		Blockchain: config.BlockchainConfigs{
			SecretKey: "secret",
			Chain:     "testnet",
			GasLimit:  8_000_000,
		},
		Quest: config.QuestConfigs{
			ClaimQueueName: "claims",
		},
		Processor: config.ProcessorConfigs{
			BatchSize:     100,
			Interval:      5 * time.Second,
			RetryAttempts: 5,
			RetryBackoff:  time.Millisecond,
		},
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
