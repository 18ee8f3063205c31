package domain

import (
	"context"
)

type Fetcher interface {
	Fetch(ctx context.Context, rel Release) FetchResult
}

type Extractor interface {
	Extract(src, dst string) error
}

// PackageInstaller is the host package manager boundary. EnsurePackage
// returns nil when the package is present on return, whether or not it had
// to be installed.
type PackageInstaller interface {
	EnsurePackage(ctx context.Context, name string) error
	EnsurePackages(ctx context.Context, names []string) error
}

// Configurator is the opaque post-install configuration step. Its failure
// is fatal to the run; what it does is not this system's concern.
type Configurator interface {
	Configure(ctx context.Context) error
}

type DaemonController interface {
	Restart(ctx context.Context, binaryPath string) (RestartResult, error)
}

type History interface {
	Record(run Run) error
	List(limit int) ([]Run, error)
	Close() error
}
