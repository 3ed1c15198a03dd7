package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/inkquest-lab/backend/config"
	"github.com/inkquest-lab/backend/internal/domain"
	"github.com/inkquest-lab/backend/internal/domain/blockchain"
	"github.com/inkquest-lab/backend/internal/domain/claimbatch"
	"github.com/inkquest-lab/backend/internal/domain/claimqueue"
	"github.com/inkquest-lab/backend/internal/domain/questreward"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/migration"
	"github.com/inkquest-lab/backend/pkg/kafka"
	"github.com/inkquest-lab/backend/pkg/logger"
	"github.com/inkquest-lab/backend/pkg/pubsub"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"github.com/inkquest-lab/backend/pkg/xredis"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo          repository.UserRepository
	questRepo         repository.QuestRepository
	questInstanceRepo repository.QuestInstanceRepository
	claimRequestRepo  repository.ClaimRequestRepository
	activityRepo      repository.ActivityRepository
	blockchainRepo    repository.BlockChainRepository

	redisClient xredis.Client
	publisher   pubsub.Publisher

	claimQueue        claimqueue.Queue
	evaluator         *questreward.Evaluator
	claimDomain       domain.ClaimDomain
	blockchainManager blockchain.Manager
	processor         *claimbatch.Processor
}

func (s *srv) loadConfig() config.Configs {
	return config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "mysql"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "inkquest"),
			User:     getEnv("MYSQL_USER", "inkquest"),
			Password: getEnv("MYSQL_PASSWORD", "inkquest"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "redis:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr:               getEnv("KAFKA_ADDRESS", "kafka:9092"),
			ClaimResolvedTopic: getEnv("KAFKA_CLAIM_RESOLVED_TOPIC", "claim_resolved"),
		},
		Blockchain: config.BlockchainConfigs{
			SecretKey:       getEnv("BLOCKCHAIN_SECRET_KEY", "secret"),
			Chain:           getEnv("BLOCKCHAIN_CHAIN", "avaxc-testnet"),
			ChainConfigFile: getEnv("BLOCKCHAIN_CHAIN_CONFIG", "chains.toml"),
			GasLimit:        uint64(getEnvAsInt("BLOCKCHAIN_GAS_LIMIT", 8_000_000)),
		},
		Quest: config.QuestConfigs{
			ClaimQueueName: getEnv("CLAIM_QUEUE_NAME", "claims"),
		},
		Processor: config.ProcessorConfigs{
			BatchSize:     getEnvAsInt("PROCESSOR_BATCH_SIZE", 100),
			Interval:      getEnvAsDuration("PROCESSOR_INTERVAL", 5*time.Second),
			RetryAttempts: getEnvAsInt("PROCESSOR_RETRY_ATTEMPTS", 5),
			RetryBackoff:  getEnvAsDuration("PROCESSOR_RETRY_BACKOFF", time.Second),
		},
	}
}

func (s *srv) loadContext() {
	cfg := s.loadConfig()
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(parseLogLevel(cfg.Env)))

	node, err := snowflake.NewNode(int64(getEnvAsInt("SNOWFLAKE_NODE_ID", 0)))
	if err != nil {
		panic(err)
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.Open(xcontext.Configs(s.ctx).Database.ConnectionString()))
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("inkquest-worker",
		[]string{xcontext.Configs(s.ctx).Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.questRepo = repository.NewQuestRepository()
	s.questInstanceRepo = repository.NewQuestInstanceRepository()
	s.claimRequestRepo = repository.NewClaimRequestRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.blockchainRepo = repository.NewBlockChainRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)
	s.claimQueue = claimqueue.NewRedisQueue(cfg.Quest.ClaimQueueName, s.redisClient)

	factory := questreward.NewFactory(s.userRepo, s.claimRequestRepo, s.activityRepo)
	s.evaluator = questreward.NewEvaluator(factory, s.questInstanceRepo)

	s.claimDomain = domain.NewClaimDomain(
		s.claimRequestRepo, s.questRepo, s.userRepo, s.evaluator, s.claimQueue)

	s.blockchainManager = blockchain.NewManager(s.blockchainRepo)
	s.processor = claimbatch.NewProcessor(
		s.claimRequestRepo,
		s.questRepo,
		s.questInstanceRepo,
		s.userRepo,
		s.blockchainRepo,
		s.claimQueue,
		s.evaluator,
		s.blockchainManager,
		s.publisher,
	)
}

func parseLogLevel(env string) int {
	if env == "local" {
		return logger.DEBUG
	}

	return logger.INFO
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return def
}

func getEnvAsInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
