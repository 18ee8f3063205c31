// Package layout owns the on-disk install layout: one immutable directory
// per fetched version under the install root, plus the `current` symlink
// that is the sole source of truth for which version is active.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const currentName = "current"

// Dir returns the version directory path for a version identifier.
func Dir(root, version string) string {
	return filepath.Join(root, version)
}

// CurrentLink returns the path of the `current` symlink under root.
func CurrentLink(root string) string {
	return filepath.Join(root, currentName)
}

// Current resolves the `current` symlink to its target version directory.
func Current(root string) (string, error) {
	target, err := os.Readlink(CurrentLink(root))
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return target, nil
}

// Activate points `current` at versionDir, replacing any previous link.
// Replacing a link with an identical target is a safe no-op; a missing
// versionDir is a precondition violation and fails before any change.
func Activate(root, versionDir string) error {
	info, err := os.Stat(versionDir)
	if err != nil {
		return fmt.Errorf("version directory %s: %w", versionDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("version directory %s: not a directory", versionDir)
	}

	link := CurrentLink(root)
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("replace %s: %w", link, err)
		}
	}

	if err := os.Symlink(versionDir, link); err != nil {
		return fmt.Errorf("link %s -> %s: %w", link, versionDir, err)
	}
	return nil
}

// Versions lists the fetched version directories under root, sorted.
func Versions(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var versions []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == currentName {
			continue
		}
		versions = append(versions, e.Name())
	}
	sort.Strings(versions)
	return versions, nil
}
