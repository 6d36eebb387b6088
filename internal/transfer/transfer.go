// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transfer retrieves remote sequence files over FTP and verifies
// their integrity against repository-supplied checksums.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/austinSCG/qebil/internal/checksum"
)

// Request describes one verified download: the scheme-less remote path as it
// appears in repository metadata, the local destination, the expected
// lowercase hex MD5 digest, and whether to overwrite a valid local copy.
type Request struct {
	RemotePath string
	LocalPath  string
	MD5        string
	Overwrite  bool
}

// Fetcher copies the remote file at remotePath to w. The transport is
// checksum-unaware; verification happens entirely on the caller's side.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath string, w io.Writer) error
}

// Downloader orchestrates conditional retrieval with integrity verification.
type Downloader struct {
	fetcher Fetcher
	log     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDownloader returns a Downloader using the given transport.
func NewDownloader(fetcher Fetcher, log *slog.Logger) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// pathLock returns the mutex guarding one destination path, so concurrent
// calls for the same file cannot interleave validation with a write.
func (d *Downloader) pathLock(path string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[path]
	if !ok {
		l = &sync.Mutex{}
		d.locks[path] = l
	}
	return l
}

// Fetch retrieves one file. When the destination already holds content
// matching the expected digest and Overwrite is false, the transfer is
// skipped without any network activity. Transport failures and checksum
// mismatches are returned as errors; a mismatched file is kept on disk and
// retrying is the caller's decision.
func (d *Downloader) Fetch(ctx context.Context, req Request) (digest string, skipped bool, err error) {
	lock := d.pathLock(req.LocalPath)
	lock.Lock()
	defer lock.Unlock()

	ftpURL := "ftp://" + req.RemotePath

	if !req.Overwrite {
		if _, statErr := os.Stat(req.LocalPath); statErr == nil {
			res := checksum.Verify(req.LocalPath, req.MD5, d.log)
			if res.Verified() {
				d.log.Info("valid file found, skipping download", "url", ftpURL, "path", req.LocalPath)
				return res.Digest, true, nil
			}
			d.log.Warn("local file found but invalid checksum, downloading again", "url", ftpURL, "path", req.LocalPath)
		}
	}

	if err := d.transfer(ctx, req.RemotePath, req.LocalPath); err != nil {
		d.log.Warn("download failed", "url", ftpURL, "path", req.LocalPath, "error", err)
		return "", false, fmt.Errorf("downloading %s to %s: %w", ftpURL, req.LocalPath, err)
	}

	res := checksum.Verify(req.LocalPath, req.MD5, d.log)
	if !res.Verified() {
		return "", false, fmt.Errorf("checksum mismatch for %s: got %s, want %s", req.LocalPath, res.Digest, req.MD5)
	}
	return res.Digest, false, nil
}

// transfer writes the remote file to a temporary file beside the destination
// and renames it into place on success, so a failed transfer never leaves a
// partial file at the destination path.
func (d *Downloader) transfer(ctx context.Context, remotePath, destPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	fetchErr := d.fetcher.Fetch(ctx, remotePath, tmp)
	closeErr := tmp.Close()
	if fetchErr != nil {
		os.Remove(tmpPath)
		return fetchErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Outcome records what happened to one request in a batch.
type Outcome struct {
	Request Request
	Digest  string
	Skipped bool
	Err     error
}

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Outcomes   []Outcome
}

// Total returns the total number of requests processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchBatch processes requests in order, printing per-file status to w and
// returning a summary. It continues after individual failures and applies a
// delay between consecutive transfers that actually touch the network.
func (d *Downloader) FetchBatch(ctx context.Context, reqs []Request, delay time.Duration, w io.Writer) BatchResult {
	var result BatchResult
	transferred := false
	for _, req := range reqs {
		if transferred && delay > 0 {
			time.Sleep(delay)
		}
		digest, skipped, err := d.Fetch(ctx, req)
		result.Outcomes = append(result.Outcomes, Outcome{Request: req, Digest: digest, Skipped: skipped, Err: err})
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", req.LocalPath, err)
			result.Failed++
			transferred = true
		case skipped:
			fmt.Fprintf(w, "skipped: %s (already valid)\n", req.LocalPath)
			result.Skipped++
		default:
			fmt.Fprintf(w, "fetched: %s (%s)\n", req.LocalPath, digest)
			result.Downloaded++
			transferred = true
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}
