// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ScanFile is the on-disk representation of one document scan. The
// researcher can keep the verified accession list alongside the document it
// came from without re-running the remote checks.
type ScanFile struct {
	Document   string      `yaml:"document"`
	Stems      []string    `yaml:"stems"`
	Accessions []string    `yaml:"accessions"`
	Summary    ScanSummary `yaml:"summary"`
}

// ScanSummary stores candidate accounting and a timestamp.
type ScanSummary struct {
	Tokens     int       `yaml:"tokens"`
	Candidates int       `yaml:"candidates"`
	Rejected   int       `yaml:"rejected"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// WriteScanFile saves a scan result to a YAML file.
func WriteScanFile(path, document string, stems []string, tokens int, out Output) error {
	sf := ScanFile{
		Document:   document,
		Stems:      stems,
		Accessions: out.Accessions,
		Summary: ScanSummary{
			Tokens:     tokens,
			Candidates: out.Candidates,
			Rejected:   out.Rejected,
			Timestamp:  time.Now(),
		},
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling scan file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadScanFile loads a previously saved scan file from disk.
func ReadScanFile(path string) (*ScanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scan file: %w", err)
	}
	var sf ScanFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing scan file: %w", err)
	}
	return &sf, nil
}
