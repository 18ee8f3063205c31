package provision

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"
)

// CommandConfigurator runs the configured post-install hook through the
// shell. What the hook does is opaque to the provisioner; a non-zero exit
// is fatal to the run. An empty command is a no-op.
type CommandConfigurator struct {
	command string
	logger  *log.Logger
}

func NewCommandConfigurator(command string, logger *log.Logger) *CommandConfigurator {
	return &CommandConfigurator{command: command, logger: logger}
}

func (c *CommandConfigurator) Configure(ctx context.Context) error {
	if c.command == "" {
		c.logger.Debug("no configure command set")
		return nil
	}

	c.logger.Info("running configure command", "command", c.command)
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", c.command)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("configure command: %w: %s", err, output)
	}
	return nil
}
