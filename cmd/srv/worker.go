package main

import (
	"github.com/urfave/cli/v2"

	"github.com/inkquest-lab/backend/internal/domain/cron"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

func (s *srv) startWorker(*cli.Context) error {
	s.loadContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()

	// A previous worker may have crashed mid-batch. Those messages are still
	// in the processing list, put them back before ticking.
	recovered, err := s.claimQueue.Recover(s.ctx)
	if err != nil {
		return err
	}
	if recovered > 0 {
		xcontext.Logger(s.ctx).Infof("Recovered %d claim messages", recovered)
	}

	if err := s.blockchainManager.WarmUp(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot warm up broadcasters: %v", err)
	}

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewClaimBatchCronJob(s.ctx, s.processor))
	cronJobManager.Register(cron.NewRotateInstancesCronJob(s.questRepo, s.questInstanceRepo))
	cronJobManager.Start(s.ctx)

	return nil
}
