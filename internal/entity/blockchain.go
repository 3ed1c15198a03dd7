package entity

import (
	"github.com/inkquest-lab/backend/pkg/enum"
)

type Blockchain struct {
	Base

	Name string `gorm:"unique"`

	// ChainID is the numeric chain id used for transaction signing.
	ChainID int64

	RPCEndpoint string

	// RewardContract receives the batched xp and mint messages.
	RewardContract string
}

type BlockchainTransactionStatusType string

var (
	BlockchainTransactionStatusTypeInProgress = enum.New(BlockchainTransactionStatusType("inprogress"))
	BlockchainTransactionStatusTypeSuccess    = enum.New(BlockchainTransactionStatusType("success"))
	BlockchainTransactionStatusTypeFailure    = enum.New(BlockchainTransactionStatusType("failure"))
)

type BlockchainTransaction struct {
	Base

	Chain      string     `gorm:"index:idx_blockchain_transaction_chain_txhash,unique"`
	Blockchain Blockchain `gorm:"foreignKey:Chain;references:Name"`
	TxHash     string     `gorm:"index:idx_blockchain_transaction_chain_txhash,unique"`

	Status BlockchainTransactionStatusType
}
