// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared configuration structs for the qebil CLI.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "qebil/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScanConfig holds settings for the document scan stage.
type ScanConfig struct {
	HTTPConfig `yaml:",inline"`

	// Stems lists the accepted accession prefixes (default PRJEB, PRJNA, ERP, SRP).
	Stems []string `json:"stems" yaml:"stems"`

	// OutputDir is the directory for scan report files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// TransferConfig holds settings for the verified download stage.
type TransferConfig struct {
	// Timeout bounds the FTP dial and transfer of a single file.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// OutputDir is the directory downloaded files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Overwrite forces a re-download even when a valid local copy exists.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`
}

// LedgerConfig holds settings for the scan/download ledger.
type LedgerConfig struct {
	// LedgerDir is the directory holding the ledger database. Empty disables
	// ledger recording.
	LedgerDir string `json:"ledger_dir" yaml:"ledger_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scan     ScanConfig     `json:"scan" yaml:"scan"`
	Transfer TransferConfig `json:"transfer" yaml:"transfer"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
}
