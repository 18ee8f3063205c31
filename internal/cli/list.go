package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quayline/stevedore/internal/config"
	"github.com/quayline/stevedore/internal/layout"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fetched versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			versions, err := layout.Versions(cfg.InstallRoot)
			if err != nil {
				return err
			}

			if len(versions) == 0 {
				fmt.Printf("\n%s No versions fetched\n", dim("○"))
				return nil
			}

			active := ""
			if current, err := layout.Current(cfg.InstallRoot); err == nil {
				active = filepath.Base(current)
			}

			fmt.Printf("Fetched versions:\n\n")
			for _, v := range versions {
				if v == active {
					fmt.Printf(" %s %s\n", bold(v), green("← current"))
				} else {
					fmt.Printf(" %s\n", bold(v))
				}
			}
			return nil
		},
	}
}
