package linker

import (
	"os"
	"path/filepath"
	"testing"
)

// installVersion lays out a version directory with the given files and
// points root/current at it.
func installVersion(t *testing.T, root, version string, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(root, version)
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0555); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	link := filepath.Join(root, "current")
	os.Remove(link)
	if err := os.Symlink(dir, link); err != nil {
		t.Fatalf("Failed to create current link: %v", err)
	}
	return link
}

func TestExpose_Coverage(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(t.TempDir(), "bin")

	current := installVersion(t, root, "17.03.1-ce", map[string]string{
		"docker":  "docker-binary",
		"dockerd": "dockerd-binary",
	})

	linked, err := Expose(current, binDir)
	if err != nil {
		t.Fatalf("Expose() error = %v", err)
	}
	if len(linked) != 2 {
		t.Fatalf("Expose() linked %d files, want 2", len(linked))
	}

	for _, name := range []string{"docker", "dockerd"} {
		link := filepath.Join(binDir, name)
		if _, err := os.Lstat(link); err != nil {
			t.Fatalf("Missing symlink %s: %v", link, err)
		}
		content, err := os.ReadFile(link)
		if err != nil {
			t.Fatalf("Failed to resolve %s: %v", link, err)
		}
		if string(content) != name+"-binary" {
			t.Errorf("%s resolves to wrong content: %s", name, content)
		}
	}
}

func TestExpose_NestedFiles(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(t.TempDir(), "bin")

	current := installVersion(t, root, "17.03.1-ce", map[string]string{
		"docker":                 "docker-binary",
		"completion/docker.bash": "completion-script",
	})

	linked, err := Expose(current, binDir)
	if err != nil {
		t.Fatalf("Expose() error = %v", err)
	}
	if len(linked) != 2 {
		t.Fatalf("Expose() linked %d files, want 2", len(linked))
	}

	// Nested files are linked by basename, flat in the bin dir.
	if _, err := os.Lstat(filepath.Join(binDir, "docker.bash")); err != nil {
		t.Errorf("Missing symlink for nested file: %v", err)
	}
}

func TestExpose_Supersession(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(t.TempDir(), "bin")

	current := installVersion(t, root, "17.03.1-ce", map[string]string{
		"docker": "old-docker",
		"only-a": "a-file",
	})
	if _, err := Expose(current, binDir); err != nil {
		t.Fatalf("Expose(A) error = %v", err)
	}

	current = installVersion(t, root, "17.06.0-ce", map[string]string{
		"docker": "new-docker",
	})
	if _, err := Expose(current, binDir); err != nil {
		t.Fatalf("Expose(B) error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(binDir, "docker"))
	if err != nil {
		t.Fatalf("Failed to resolve docker link: %v", err)
	}
	if string(content) != "new-docker" {
		t.Errorf("docker resolves to %s, want new-docker", content)
	}

	// Orphaned links from the superseded version are left behind as-is.
	if _, err := os.Lstat(filepath.Join(binDir, "only-a")); err != nil {
		t.Errorf("Orphaned link was removed: %v", err)
	}
}

func TestExpose_Rerun(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(t.TempDir(), "bin")

	current := installVersion(t, root, "17.03.1-ce", map[string]string{
		"docker": "docker-binary",
	})

	for i := 0; i < 2; i++ {
		if _, err := Expose(current, binDir); err != nil {
			t.Fatalf("Expose() run %d error = %v", i+1, err)
		}
	}

	content, err := os.ReadFile(filepath.Join(binDir, "docker"))
	if err != nil {
		t.Fatalf("Failed to resolve docker link: %v", err)
	}
	if string(content) != "docker-binary" {
		t.Errorf("docker resolves to %s after re-run", content)
	}
}

func TestExpose_MissingCurrent(t *testing.T) {
	if _, err := Expose(filepath.Join(t.TempDir(), "current"), t.TempDir()); err == nil {
		t.Fatal("Expected error for missing current link")
	}
}
