package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayline/stevedore/internal/fetcher"
)

func newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <version>",
		Short: "Switch to an already-fetched version and restart the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, cleanup, err := newProvisioner()
			if err != nil {
				return err
			}
			defer cleanup()

			version := args[0]
			if !fetcher.IsFetched(cfg.InstallRoot, version, cfg.EntryPoint) {
				return fmt.Errorf("version %s is not fetched (run `stevedore fetch %s` first)", version, version)
			}

			if err := p.Activate(cmd.Context(), version); err != nil {
				fmt.Printf("%s %s: %v\n", red("✗"), version, err)
				return err
			}

			fmt.Printf("%s %s %s\n", green("✓"), bold(version), dim("(active)"))
			return nil
		},
	}
}
