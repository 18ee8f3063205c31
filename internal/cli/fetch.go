package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <version>...",
		Short: "Prefetch versions without activating them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, cleanup, err := newProvisioner()
			if err != nil {
				return err
			}
			defer cleanup()

			mu := &sync.Mutex{}
			var errs []error

			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(min(len(args), max(cfg.MaxParallel, 1)))

			for _, version := range args {
				g.Go(func() error {
					if err := p.Fetch(gctx, version); err != nil {
						mu.Lock()
						errs = append(errs, fmt.Errorf("%s: %v", version, err))
						mu.Unlock()
						return nil
					}
					fmt.Printf("%s %s\n", green("✓"), bold(version))
					return nil
				})
			}
			_ = g.Wait()

			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Printf("%s %s\n", red("✗"), e)
				}
				return fmt.Errorf("failed to fetch %d version(s)", len(errs))
			}
			return nil
		},
	}
}
