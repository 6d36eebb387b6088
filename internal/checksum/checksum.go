// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checksum validates local files against MD5 digests supplied by
// remote repository metadata.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Status classifies the outcome of a file verification.
type Status int

const (
	// StatusVerified means the computed digest equals the expected digest.
	StatusVerified Status = iota
	// StatusMismatch means the file was read but its digest differs.
	StatusMismatch
	// StatusMissing means the file does not exist. Absence is a normal,
	// reportable outcome, not an error.
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusVerified:
		return "verified"
	case StatusMismatch:
		return "mismatch"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Result is the outcome of verifying a local file against an expected digest.
// Digest holds the computed digest whenever the file was readable, so a
// mismatch still reports what was actually on disk.
type Result struct {
	Status Status
	Digest string
}

// Verified reports whether the file matched the expected digest.
func (r Result) Verified() bool {
	return r.Status == StatusVerified
}

// FileMD5 computes the lowercase hexadecimal MD5 digest of the file contents.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify computes the MD5 digest of the file at path and compares it to
// expected (a lowercase hex string). A missing file yields StatusMissing and
// a warning; it never returns an error for absence.
func Verify(path, expected string, log *slog.Logger) Result {
	if _, err := os.Stat(path); err != nil {
		log.Warn("file not found", "path", path)
		return Result{Status: StatusMissing}
	}

	digest, err := FileMD5(path)
	if err != nil {
		log.Warn("could not compute checksum", "path", path, "error", err)
		return Result{Status: StatusMissing}
	}

	if digest != expected {
		return Result{Status: StatusMismatch, Digest: digest}
	}
	return Result{Status: StatusVerified, Digest: digest}
}
