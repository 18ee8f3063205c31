// Package pkgmgr is the host package manager boundary, backed by apt.
package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

type Apt struct {
	logger *log.Logger
}

func NewApt(logger *log.Logger) *Apt {
	return &Apt{logger: logger}
}

// EnsurePackage installs name unless dpkg already reports it installed.
func (a *Apt) EnsurePackage(ctx context.Context, name string) error {
	if a.installed(ctx, name) {
		a.logger.Debug("package already installed", "package", name)
		return nil
	}

	a.logger.Info("installing package", "package", name)
	cmd := exec.CommandContext(ctx, "apt-get", "install", "-y", name)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("install %s: %w: %s", name, err, output)
	}
	return nil
}

func (a *Apt) EnsurePackages(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := a.EnsurePackage(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (a *Apt) installed(ctx context.Context, name string) bool {
	return exec.CommandContext(ctx, "dpkg", "-s", name).Run() == nil
}
