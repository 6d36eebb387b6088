// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPFetcher retrieves files over anonymous FTP. Remote paths are
// scheme-less, host-first (e.g. "ftp.sra.ebi.ac.uk/vol1/.../x.fastq.gz"),
// as delivered by repository metadata.
type FTPFetcher struct {
	// Timeout bounds the dial; zero means no bound beyond the context.
	Timeout time.Duration
}

// splitRemotePath separates the host from the path of a scheme-less remote
// reference.
func splitRemotePath(remotePath string) (host, path string, err error) {
	host, path, ok := strings.Cut(remotePath, "/")
	if !ok || host == "" || path == "" {
		return "", "", fmt.Errorf("remote path %q has no host/path separator", remotePath)
	}
	return host, path, nil
}

// Fetch dials the remote host, logs in anonymously, and streams the file to
// w. Connection and protocol errors are returned to the caller; there is one
// attempt per request.
func (f FTPFetcher) Fetch(ctx context.Context, remotePath string, w io.Writer) error {
	host, path, err := splitRemotePath(remotePath)
	if err != nil {
		return err
	}

	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if f.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(f.Timeout))
	}

	conn, err := ftp.Dial(host+":21", opts...)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", host, err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return fmt.Errorf("anonymous login to %s: %w", host, err)
	}

	resp, err := conn.Retr(path)
	if err != nil {
		return fmt.Errorf("retrieving %s: %w", path, err)
	}
	defer resp.Close()

	if _, err := io.Copy(w, resp); err != nil {
		return fmt.Errorf("streaming %s: %w", remotePath, err)
	}
	return nil
}
