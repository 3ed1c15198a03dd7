package main

import (
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/inkquest-lab/backend/config"
	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()

	chains, err := config.LoadChainConfigs(xcontext.Configs(s.ctx).Blockchain.ChainConfigFile)
	if err != nil {
		return err
	}

	for _, chain := range chains {
		err := s.blockchainRepo.Upsert(s.ctx, &entity.Blockchain{
			Base:           entity.Base{ID: uuid.NewString()},
			Name:           chain.Name,
			ChainID:        chain.ID,
			RPCEndpoint:    chain.RPC,
			RewardContract: chain.RewardContract,
		})
		if err != nil {
			return err
		}

		xcontext.Logger(s.ctx).Infof("Seeded chain %s (%d)", chain.Name, chain.ID)
	}

	return nil
}
