package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quayline/stevedore/internal/config"
	"github.com/quayline/stevedore/internal/daemon"
	"github.com/quayline/stevedore/internal/extractor"
	"github.com/quayline/stevedore/internal/fetcher"
	"github.com/quayline/stevedore/internal/history"
	"github.com/quayline/stevedore/internal/pkgmgr"
	"github.com/quayline/stevedore/internal/provision"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:          "stevedore",
		Short:        "Provision versioned container runtime releases on a host",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newProvisionCmd(),
		newFetchCmd(),
		newActivateCmd(),
		newListCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return rootCmd.Execute()
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "stevedore",
	})
}

func newProvisioner() (*provision.Provisioner, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := newLogger()

	hist, err := history.New(cfg.HistoryDB)
	if err != nil {
		return nil, nil, nil, err
	}

	p := provision.New(
		cfg,
		fetcher.New(cfg.InstallRoot, cfg.EntryPoint, extractor.New(), cfg.DownloadTimeout()),
		pkgmgr.NewApt(logger),
		daemon.New(cfg.DaemonName, cfg.Supervisor.Command, logger),
		provision.NewCommandConfigurator(cfg.ConfigureCommand, logger),
		hist,
		logger,
	)

	return p, cfg, func() { hist.Close() }, nil
}
