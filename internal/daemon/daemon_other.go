//go:build !(unix || linux || darwin)

package daemon

import (
	"context"
	"fmt"
)

func (c *Controller) findProcesses(ctx context.Context) []int {
	return nil
}

func (c *Controller) killAll(ctx context.Context) int {
	return 0
}

func (c *Controller) launch(binaryPath string) (int, error) {
	return 0, fmt.Errorf("daemon supervision is not supported on this platform")
}
