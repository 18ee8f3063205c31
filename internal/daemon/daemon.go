// Package daemon restarts the managed daemon under its supervising wrapper.
package daemon

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/quayline/stevedore/internal/domain"
)

// Controller kills running instances of the named daemon and launches a new
// one as `<supervisor> -- <binary>`, detached from this process.
type Controller struct {
	name       string
	supervisor string
	logger     *log.Logger
}

func New(name, supervisor string, logger *log.Logger) *Controller {
	return &Controller{
		name:       name,
		supervisor: supervisor,
		logger:     logger,
	}
}

// Restart terminates every process matching the daemon name, then launches
// the binary under the supervisor. The kill pass is best-effort: finding
// nothing to kill is success. A launch failure is fatal. No readiness check
// is made; the daemon is launched, not verified up.
func (c *Controller) Restart(ctx context.Context, binaryPath string) (domain.RestartResult, error) {
	killed := c.killAll(ctx)
	if killed == 0 {
		c.logger.Info("no running daemon to stop", "daemon", c.name)
	} else {
		c.logger.Info("stopped running daemon", "daemon", c.name, "count", killed)
	}

	pid, err := c.launch(binaryPath)
	if err != nil {
		return domain.RestartResult{Killed: killed}, fmt.Errorf("launch %s under %s: %w", binaryPath, c.supervisor, err)
	}

	c.logger.Info("daemon launched", "daemon", c.name, "pid", pid, "supervisor", c.supervisor)
	return domain.RestartResult{Killed: killed, PID: pid}, nil
}

// Running returns the PIDs of processes currently matching the daemon name.
func (c *Controller) Running(ctx context.Context) []int {
	return c.findProcesses(ctx)
}
