package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// documentExtensions are the file types a batch will pick up from a
// directory.
var documentExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// ListDocuments walks root and returns the matching document paths in
// lexical order, skipping hidden files and directories. Lexical order is
// the deterministic submission order the serial numbers follow.
func ListDocuments(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("input directory is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := documentExtensions[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
