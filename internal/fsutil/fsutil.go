// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsutil provides small filesystem helpers shared across stages.
package fsutil

import (
	"fmt"
	"os"
	"strings"
)

// EnsureOutputDir normalizes dir to end with a path separator and creates it
// (and any parents) if it does not exist. It returns the normalized path.
func EnsureOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("output directory must not be empty")
	}
	if !strings.HasSuffix(dir, string(os.PathSeparator)) {
		dir += string(os.PathSeparator)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return dir, nil
}
