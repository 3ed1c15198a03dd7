package repository

import (
	"context"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BlockChainRepository interface {
	Upsert(ctx context.Context, chain *entity.Blockchain) error
	GetByName(ctx context.Context, name string) (*entity.Blockchain, error)
	GetAll(ctx context.Context) ([]entity.Blockchain, error)
	CreateTransaction(ctx context.Context, tx *entity.BlockchainTransaction) error
	GetTransactionByID(ctx context.Context, id string) (*entity.BlockchainTransaction, error)
}

type blockChainRepository struct{}

func NewBlockChainRepository() *blockChainRepository {
	return &blockChainRepository{}
}

func (r *blockChainRepository) Upsert(ctx context.Context, chain *entity.Blockchain) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"chain_id", "rpc_endpoint", "reward_contract",
		}),
	}).Create(chain).Error
}

func (r *blockChainRepository) GetByName(ctx context.Context, name string) (*entity.Blockchain, error) {
	var result entity.Blockchain
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *blockChainRepository) GetAll(ctx context.Context) ([]entity.Blockchain, error) {
	var result []entity.Blockchain
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *blockChainRepository) CreateTransaction(ctx context.Context, tx *entity.BlockchainTransaction) error {
	return xcontext.DB(ctx).Create(tx).Error
}

func (r *blockChainRepository) GetTransactionByID(
	ctx context.Context, id string,
) (*entity.BlockchainTransaction, error) {
	var result entity.BlockchainTransaction
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
