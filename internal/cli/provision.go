package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayline/stevedore/internal/layout"
)

func newProvisionCmd() *cobra.Command {
	var skipPrereqs bool

	cmd := &cobra.Command{
		Use:   "provision <version>",
		Short: "Fetch, activate and launch a runtime version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, cleanup, err := newProvisioner()
			if err != nil {
				return err
			}
			defer cleanup()

			p.SkipPrereqs = skipPrereqs

			version := args[0]
			if err := p.Run(cmd.Context(), version); err != nil {
				fmt.Printf("%s %s: %v\n", red("✗"), version, err)
				return err
			}

			fmt.Printf("%s %s\n  %s %s\n  %s %s\n",
				green("✓"), bold(version),
				cyan("path:"), layout.Dir(cfg.InstallRoot, version),
				cyan("current:"), layout.CurrentLink(cfg.InstallRoot))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPrereqs, "skip-prereqs", false, "Skip prerequisite package installation")
	return cmd
}
