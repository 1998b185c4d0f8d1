package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extension is the file extension of Nix sources.
const Extension = ".nix"

// Discover expands paths into the list of files to format. Directories are
// walked recursively for .nix files, skipping hidden directories and
// excluded entries. Files named explicitly are kept whatever their
// extension, unless excluded. The result is sorted and free of duplicates.
func (e *Engine) Discover(paths []string) ([]string, error) {
	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if !e.excluded(root, filepath.Base(root)) {
				files = append(files, filepath.Clean(root))
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if path != root && (isHidden(d.Name()) || e.excluded(rel, d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != Extension || e.excluded(rel, d.Name()) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	files = slices.Compact(files)

	e.logger.Debug("discovered files", "count", len(files), "roots", paths)
	return files, nil
}

// excluded reports whether any exclude pattern matches the relative path or
// the base name. Invalid patterns never match.
func (e *Engine) excluded(rel, name string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range e.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
