// Package linker exposes the active version's files in an executable
// search path directory, one symlink per regular file.
package linker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Expose walks every regular file under currentLink recursively and upserts
// a symlink named after the file's basename in binDir. Link targets point
// through currentLink, so a later activation with the same file set needs
// no relinking to take effect. An existing link is replaced unconditionally:
// a newer version's binary with the same name supersedes the old link.
//
// Links from a superseded version whose basename no longer exists under
// current are left behind untouched.
func Expose(currentLink, binDir string) ([]string, error) {
	tree, err := filepath.EvalSymlinks(currentLink)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", currentLink, err)
	}

	if err := os.MkdirAll(binDir, 0755); err != nil {
		return nil, fmt.Errorf("create bin directory: %w", err)
	}

	var linked []string
	err = filepath.WalkDir(tree, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(tree, path)
		if err != nil {
			return err
		}
		target := filepath.Join(currentLink, rel)
		link := filepath.Join(binDir, d.Name())

		if _, err := os.Lstat(link); err == nil {
			if err := os.Remove(link); err != nil {
				return fmt.Errorf("replace %s: %w", link, err)
			}
		}
		if err := os.Symlink(target, link); err != nil {
			return fmt.Errorf("link %s -> %s: %w", link, target, err)
		}

		linked = append(linked, link)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return linked, nil
}
