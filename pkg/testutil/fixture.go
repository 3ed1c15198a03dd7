package testutil

import (
	"context"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:          entity.Base{ID: "user1"},
		Name:          "user1",
		WalletAddress: "0x1111111111111111111111111111111111111111",
	}

	User2 = entity.User{
		Base:          entity.Base{ID: "user2"},
		Name:          "user2",
		WalletAddress: "0x2222222222222222222222222222222222222222",
	}

	// User3 has no linked wallet.
	User3 = entity.User{
		Base: entity.Base{ID: "user3"},
		Name: "user3",
	}

	Chain = entity.Blockchain{
		Base:           entity.Base{ID: "chain-testnet"},
		Name:           "testnet",
		ChainID:        43113,
		RPCEndpoint:    "http://localhost:8545",
		RewardContract: "0x3333333333333333333333333333333333333333",
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertChains(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, User3} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertChains(ctx context.Context) {
	blockchainRepo := repository.NewBlockChainRepository()

	chain := Chain
	if err := blockchainRepo.Upsert(ctx, &chain); err != nil {
		panic(err)
	}
}
