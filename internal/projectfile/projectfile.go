// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package projectfile loads lists of study identifiers from tab-separated
// project files, as produced by a prior search run or supplied by the user
// as a bare one-per-line list.
package projectfile

import (
	"fmt"
	"os"
	"strings"
)

const studyColumn = "study_id"

// Load reads a project file and returns the study identifiers it contains.
// If the first line contains a "study_id" column, that column is read from
// the remaining lines. Otherwise the file is treated as a single unlabeled
// column, one identifier per line. Values are whitespace-trimmed and
// deduplicated preserving first-seen order. A file with no usable
// identifiers is an error.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	col, hasHeader := findStudyColumn(lines)
	if !hasHeader {
		// Headerless files must be a single column; anything wider has no
		// identifiable study column.
		for _, line := range lines {
			if strings.Contains(line, "\t") {
				return nil, fmt.Errorf("project file %s has no %s column", path, studyColumn)
			}
		}
	}

	start := 0
	if hasHeader {
		start = 1
	}

	seen := make(map[string]bool)
	var ids []string
	for _, line := range lines[start:] {
		fields := strings.Split(line, "\t")
		if col >= len(fields) {
			continue
		}
		id := strings.TrimSpace(fields[col])
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("project file %s contains no study identifiers", path)
	}
	return ids, nil
}

// findStudyColumn returns the index of the study_id column in the first line
// and whether a header row is present.
func findStudyColumn(lines []string) (int, bool) {
	if len(lines) == 0 {
		return 0, false
	}
	for i, name := range strings.Split(lines[0], "\t") {
		if strings.TrimSpace(name) == studyColumn {
			return i, true
		}
	}
	return 0, false
}
