package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "InkQuest"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startWorker,
			Name:        "worker",
			Usage:       "Start the claim batch worker",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Drains the claim queue every few seconds and resolves claim requests in batches.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database and seed supported chains",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Auto migrates all tables and upserts the chains declared in the chain config file.`,
		},
	}

	s.app = app
}
