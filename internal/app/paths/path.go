package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrPathRequired = errors.New("path is required")

// NormalizeFilePath trims and resolves a user supplied file path to an
// absolute one so log lines and errors name the same file regardless of cwd.
func NormalizeFilePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrPathRequired
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}

	return absPath, nil
}
