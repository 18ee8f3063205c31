package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayline/stevedore/internal/config"
	"github.com/quayline/stevedore/internal/domain"
	"github.com/quayline/stevedore/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent provisioning runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			hist, err := history.New(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer hist.Close()

			runs, err := hist.List(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Printf("\n%s No runs recorded\n", dim("○"))
				return nil
			}

			for _, run := range runs {
				mark := green("✓")
				detail := ""
				if run.Status == domain.StatusFailed {
					mark = red("✗")
					detail = fmt.Sprintf("  %s", dim("failed at "+run.FailedStep))
				}
				fmt.Printf("%s %s %s %s%s\n",
					mark,
					run.FinishedAt.Format("2006-01-02 15:04:05"),
					run.Action,
					bold(run.Version),
					detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
