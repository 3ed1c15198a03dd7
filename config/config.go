package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	Redis      RedisConfigs
	Kafka      KafkaConfigs
	Blockchain BlockchainConfigs
	Quest      QuestConfigs
	Processor  ProcessorConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string

	// ClaimResolvedTopic is the topic where the batch processor publishes a
	// message for every resolved claim request.
	ClaimResolvedTopic string
}

type BlockchainConfigs struct {
	// SecretKey is the seed of the custodial account key. The broadcaster
	// derives the signing key from it, the key never lives in the database.
	SecretKey string

	// Chain is the chain this deployment broadcasts reward transactions on.
	Chain string

	ChainConfigFile string
	GasLimit        uint64
}

type QuestConfigs struct {
	ClaimQueueName string
}

type ProcessorConfigs struct {
	BatchSize     int
	Interval      time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

// ChainConfig is one supported chain declared in the chain TOML file. The
// migrate command seeds the blockchain table from it.
type ChainConfig struct {
	Name           string `toml:"name"`
	ID             int64  `toml:"id"`
	RPC            string `toml:"rpc"`
	RewardContract string `toml:"reward_contract"`
}

type chainConfigFile struct {
	Chains []ChainConfig `toml:"chains"`
}

func LoadChainConfigs(path string) ([]ChainConfig, error) {
	var f chainConfigFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, err
	}

	if len(f.Chains) == 0 {
		return nil, fmt.Errorf("no chain declared in %s", path)
	}

	return f.Chains, nil
}
