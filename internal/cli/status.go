package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayline/stevedore/internal/config"
	"github.com/quayline/stevedore/internal/daemon"
	"github.com/quayline/stevedore/internal/layout"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active version and daemon state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			current, err := layout.Current(cfg.InstallRoot)
			if err != nil {
				fmt.Printf("%s no active version (%s missing)\n", yellow("!"), layout.CurrentLink(cfg.InstallRoot))
			} else {
				fmt.Printf("%s %s\n", cyan("current:"), bold(current))
			}

			ctrl := daemon.New(cfg.DaemonName, cfg.Supervisor.Command, newLogger())

			stop := withSpinner(cmd.Context(), fmt.Sprintf("Checking for %s...", cfg.DaemonName))
			pids := ctrl.Running(cmd.Context())
			stop()

			if len(pids) == 0 {
				fmt.Printf("%s %s is not running\n", red("✗"), cfg.DaemonName)
				return nil
			}
			fmt.Printf("%s %s running %v\n", green("✓"), cfg.DaemonName, pids)
			return nil
		},
	}
}
