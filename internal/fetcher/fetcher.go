package fetcher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quayline/stevedore/internal/domain"
	"github.com/quayline/stevedore/internal/layout"
)

// HTTPFetcher materializes release archives under the install root, one
// immutable directory per version.
type HTTPFetcher struct {
	client     *http.Client
	root       string
	entryPoint string
	extractor  domain.Extractor
}

func New(root, entryPoint string, extractor domain.Extractor, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		root:       root,
		entryPoint: entryPoint,
		extractor:  extractor,
	}
}

// IsFetched reports whether the version directory already holds the
// expected entry point file. This is the primary already-installed guard:
// when true, Fetch performs no network access and no extraction.
func IsFetched(root, version, entryPoint string) bool {
	info, err := os.Stat(filepath.Join(layout.Dir(root, version), entryPoint))
	return err == nil && info.Mode().IsRegular()
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rel domain.Release) domain.FetchResult {
	dir := layout.Dir(f.root, rel.Version)

	if IsFetched(f.root, rel.Version, f.entryPoint) {
		return domain.FetchResult{Version: rel.Version, Dir: dir, Skipped: true}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.FetchResult{Version: rel.Version, Error: err}
	}

	archive, err := f.download(ctx, rel)
	if err != nil {
		return domain.FetchResult{Version: rel.Version, Error: err}
	}
	defer os.Remove(archive)

	if err := f.extractor.Extract(archive, dir); err != nil {
		return domain.FetchResult{Version: rel.Version, Error: fmt.Errorf("extract %s: %w", rel.Version, err)}
	}

	if err := sealTree(dir); err != nil {
		return domain.FetchResult{Version: rel.Version, Error: err}
	}

	return domain.FetchResult{Version: rel.Version, Dir: dir}
}

func (f *HTTPFetcher) download(ctx context.Context, rel domain.Release) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rel.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status: %d", rel.URL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "stevedore-"+rel.Version+"-*.tgz")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	bar := progressbar.DefaultBytes(
		resp.ContentLength,
		fmt.Sprintf("Downloading %s", rel.Version),
	)

	if _, err := io.Copy(io.MultiWriter(tmp, bar), resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// sealTree makes an extracted release read-only: files 0555, directories
// 0755. An installed version is never modified in place.
func sealTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.Chmod(path, 0755)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		return os.Chmod(path, 0555)
	})
}
