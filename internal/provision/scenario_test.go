package provision

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quayline/stevedore/internal/config"
	"github.com/quayline/stevedore/internal/domain"
	"github.com/quayline/stevedore/internal/extractor"
	"github.com/quayline/stevedore/internal/fetcher"
	"github.com/quayline/stevedore/internal/history"
	"github.com/quayline/stevedore/internal/layout"
)

// TestProvisionScenario drives the full workflow with a real fetcher,
// extractor, layout, linker and history against a local archive server:
// empty install root, version 17.03.1-ce, archive wrapped in a docker/ top
// directory containing docker and dockerd. A second identical run must not
// touch the network, must keep current where it is, and must still
// restart the daemon.
func TestProvisionScenario(t *testing.T) {
	archive := buildArchive(t, "docker", map[string]string{
		"docker":  "docker-binary",
		"dockerd": "dockerd-binary",
	})

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.InstallRoot = t.TempDir()
	cfg.BinDir = filepath.Join(t.TempDir(), "bin")
	cfg.URLTemplate = srv.URL + "/builds/docker-{version}.tgz"
	cfg.EntryPoint = "docker"
	cfg.DaemonBinary = "dockerd"
	cfg.Prerequisites = []string{"curl"}

	rec := &recorder{}
	daemon := &fakeDaemon{rec: rec}

	hist, err := history.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	p := New(cfg,
		fetcher.New(cfg.InstallRoot, cfg.EntryPoint, extractor.New(), time.Minute),
		&fakeInstaller{rec: rec},
		daemon,
		&fakeConfigurator{rec: rec},
		hist,
		log.New(io.Discard),
	)

	if err := p.Run(context.Background(), "17.03.1-ce"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	versionDir := layout.Dir(cfg.InstallRoot, "17.03.1-ce")
	for _, name := range []string{"docker", "dockerd"} {
		info, err := os.Stat(filepath.Join(versionDir, name))
		if err != nil {
			t.Fatalf("Missing %s: %v", name, err)
		}
		if info.Mode().Perm() != 0o555 {
			t.Errorf("%s mode = %o, want 0555", name, info.Mode().Perm())
		}
	}

	current, err := layout.Current(cfg.InstallRoot)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if current != versionDir {
		t.Errorf("current -> %s, want %s", current, versionDir)
	}

	for _, name := range []string{"docker", "dockerd"} {
		link := filepath.Join(cfg.BinDir, name)
		content, err := os.ReadFile(link)
		if err != nil {
			t.Fatalf("Exposed binary %s unresolvable: %v", name, err)
		}
		if string(content) != name+"-binary" {
			t.Errorf("%s resolves to %s", name, content)
		}
	}

	if len(daemon.binaries) != 1 {
		t.Fatalf("Restart count = %d, want 1", len(daemon.binaries))
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("Request count = %d, want 1", got)
	}

	// Re-run with identical inputs.
	if err := p.Run(context.Background(), "17.03.1-ce"); err != nil {
		t.Fatalf("Re-run error = %v", err)
	}

	if got := requests.Load(); got != 1 {
		t.Errorf("Request count after re-run = %d, want 1", got)
	}
	if got, _ := layout.Current(cfg.InstallRoot); got != versionDir {
		t.Errorf("current moved on re-run: %s", got)
	}
	if len(daemon.binaries) != 2 {
		t.Errorf("Restart count after re-run = %d, want 2", len(daemon.binaries))
	}

	runs, err := hist.List(10)
	if err != nil {
		t.Fatalf("History List() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("History runs = %d, want 2", len(runs))
	}
	for _, run := range runs {
		if run.Status != domain.StatusOK {
			t.Errorf("Run %+v not ok", run)
		}
	}
}

func buildArchive(t *testing.T, topDir string, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for name, content := range files {
		hdr := &tar.Header{
			Name:     topDir + "/" + name,
			Mode:     0o755,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write tar body: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}
