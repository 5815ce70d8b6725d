package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverFiles walks root and returns ingestible files in walk order:
// regular files with a first-class suffix that no exclude pattern matches.
// Patterns are doublestar globs tested against the slashed relative path
// and against the base name.
func DiscoverFiles(root string, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && excluded(rel+"/", exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if excluded(rel, exclude) {
			return nil
		}
		if !SupportedSuffix(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		base := filepath.Base(strings.TrimSuffix(rel, "/"))
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
