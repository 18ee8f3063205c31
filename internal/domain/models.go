package domain

import "time"

// Release identifies one downloadable build of the managed runtime.
type Release struct {
	Version string
	URL     string
}

type FetchResult struct {
	Version string
	Dir     string
	Skipped bool
	Error   error
}

// RestartResult reports what the daemon restart actually did. A kill pass
// that found nothing running is success, not an error.
type RestartResult struct {
	Killed int
	PID    int
}

func (r RestartResult) NothingRunning() bool {
	return r.Killed == 0
}

// Run is one recorded provisioning run.
type Run struct {
	ID         int64     `json:"id"`
	Version    string    `json:"version"`
	Action     string    `json:"action"`
	Status     string    `json:"status"`
	FailedStep string    `json:"failed_step,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

const (
	ActionProvision = "provision"
	ActionActivate  = "activate"
	ActionFetch     = "fetch"

	StatusOK     = "ok"
	StatusFailed = "failed"
)
