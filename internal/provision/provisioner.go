// Package provision sequences a full provisioning run. The run is strictly
// sequential, every failure is fatal to the remaining steps, and there is
// no rollback: re-running the whole workflow is the recovery mechanism.
package provision

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quayline/stevedore/internal/config"
	"github.com/quayline/stevedore/internal/domain"
	"github.com/quayline/stevedore/internal/layout"
	"github.com/quayline/stevedore/internal/linker"
)

const (
	StepPrerequisites = "prerequisites"
	StepSupervisorPkg = "supervisor-package"
	StepFetch         = "fetch"
	StepActivate      = "activate"
	StepExpose        = "expose"
	StepRestart       = "restart"
	StepConfigure     = "configure"
)

type Provisioner struct {
	cfg          *config.Config
	fetcher      domain.Fetcher
	packages     domain.PackageInstaller
	daemon       domain.DaemonController
	configurator domain.Configurator
	history      domain.History
	logger       *log.Logger

	// SkipPrereqs skips the external prerequisite-installation step for
	// hosts that are already bootstrapped.
	SkipPrereqs bool
}

func New(
	cfg *config.Config,
	fetcher domain.Fetcher,
	packages domain.PackageInstaller,
	daemon domain.DaemonController,
	configurator domain.Configurator,
	history domain.History,
	logger *log.Logger,
) *Provisioner {

	return &Provisioner{
		cfg:          cfg,
		fetcher:      fetcher,
		packages:     packages,
		daemon:       daemon,
		configurator: configurator,
		history:      history,
		logger:       logger,
	}
}

// Run executes the full workflow for one version:
//
//  1. install prerequisite packages (external collaborator)
//  2. ensure the supervising wrapper package is present
//  3. fetch the release (skipped when the version is already on disk)
//  4. point `current` at the version directory (always, so re-running with
//     an older version re-activates it)
//  5. expose binaries in the search path (always; `current` may have moved)
//  6. kill and relaunch the daemon under the supervisor (always)
//  7. run the post-install configuration step (external collaborator)
func (p *Provisioner) Run(ctx context.Context, version string) error {
	run := domain.Run{
		Version:   version,
		Action:    domain.ActionProvision,
		StartedAt: time.Now(),
	}

	if !p.SkipPrereqs {
		if err := p.packages.EnsurePackages(ctx, p.cfg.Prerequisites); err != nil {
			return p.fail(run, StepPrerequisites, err)
		}
	}

	if err := p.packages.EnsurePackage(ctx, p.cfg.Supervisor.Package); err != nil {
		return p.fail(run, StepSupervisorPkg, err)
	}

	if err := p.fetch(ctx, version); err != nil {
		return p.fail(run, StepFetch, err)
	}

	if err := p.activate(version); err != nil {
		return p.fail(run, StepActivate, err)
	}

	if err := p.expose(); err != nil {
		return p.fail(run, StepExpose, err)
	}

	if err := p.restart(ctx); err != nil {
		return p.fail(run, StepRestart, err)
	}

	if err := p.configurator.Configure(ctx); err != nil {
		return p.fail(run, StepConfigure, err)
	}

	p.record(run, domain.StatusOK, "")
	p.logger.Info("provisioning complete", "version", version)
	return nil
}

// Activate switches the host to an already-fetched version without touching
// the network: activation, binary exposure, and a daemon restart.
func (p *Provisioner) Activate(ctx context.Context, version string) error {
	run := domain.Run{
		Version:   version,
		Action:    domain.ActionActivate,
		StartedAt: time.Now(),
	}

	if err := p.activate(version); err != nil {
		return p.fail(run, StepActivate, err)
	}
	if err := p.expose(); err != nil {
		return p.fail(run, StepExpose, err)
	}
	if err := p.restart(ctx); err != nil {
		return p.fail(run, StepRestart, err)
	}

	p.record(run, domain.StatusOK, "")
	p.logger.Info("version activated", "version", version)
	return nil
}

// Fetch materializes one version directory without activating it.
func (p *Provisioner) Fetch(ctx context.Context, version string) error {
	run := domain.Run{
		Version:   version,
		Action:    domain.ActionFetch,
		StartedAt: time.Now(),
	}

	if err := p.fetch(ctx, version); err != nil {
		return p.fail(run, StepFetch, err)
	}

	p.record(run, domain.StatusOK, "")
	return nil
}

func (p *Provisioner) fetch(ctx context.Context, version string) error {
	rel := domain.Release{
		Version: version,
		URL:     domain.ExpandURL(p.cfg.URLTemplate, version),
	}

	res := p.fetcher.Fetch(ctx, rel)
	if res.Error != nil {
		return res.Error
	}
	if res.Skipped {
		p.logger.Info("version already fetched", "version", version, "dir", res.Dir)
	} else {
		p.logger.Info("version fetched", "version", version, "dir", res.Dir)
	}
	return nil
}

func (p *Provisioner) activate(version string) error {
	return layout.Activate(p.cfg.InstallRoot, layout.Dir(p.cfg.InstallRoot, version))
}

func (p *Provisioner) expose() error {
	linked, err := linker.Expose(layout.CurrentLink(p.cfg.InstallRoot), p.cfg.BinDir)
	if err != nil {
		return err
	}
	p.logger.Info("binaries exposed", "count", len(linked), "dir", p.cfg.BinDir)
	return nil
}

func (p *Provisioner) restart(ctx context.Context) error {
	binary := filepath.Join(layout.CurrentLink(p.cfg.InstallRoot), p.cfg.DaemonBinary)
	_, err := p.daemon.Restart(ctx, binary)
	return err
}

func (p *Provisioner) fail(run domain.Run, step string, err error) error {
	p.record(run, domain.StatusFailed, step)
	return fmt.Errorf("%s: %w", step, err)
}

func (p *Provisioner) record(run domain.Run, status, failedStep string) {
	run.Status = status
	run.FailedStep = failedStep
	run.FinishedAt = time.Now()
	if err := p.history.Record(run); err != nil {
		p.logger.Warn("failed to record run", "err", err)
	}
}
