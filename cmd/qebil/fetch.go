package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/austinSCG/qebil/internal/fastq"
	"github.com/austinSCG/qebil/internal/fsutil"
	"github.com/austinSCG/qebil/internal/ledger"
	"github.com/austinSCG/qebil/internal/transfer"
	"github.com/austinSCG/qebil/pkg/types"
)

const defaultDelay = 1 * time.Second

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download remote files and verify their checksums",
	Long: `Fetch retrieves files over FTP and verifies each against its expected
MD5 checksum. Remote paths and checksums are semicolon-separated lists paired
positionally, as delivered in repository run metadata. A destination that
already holds matching content is skipped without touching the network.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("ftp", "", "semicolon-separated scheme-less remote paths")
	fetchCmd.Flags().String("md5", "", "semicolon-separated expected MD5 checksums")
	fetchCmd.Flags().String("output-dir", ".", "directory downloaded files are written to")
	fetchCmd.Flags().Bool("overwrite", false, "re-download even when a valid local copy exists")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().Duration("timeout", 0, "FTP dial timeout (default 60s)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ftpList, _ := cmd.Flags().GetString("ftp")
	md5List, _ := cmd.Flags().GetString("md5")
	if ftpList == "" || md5List == "" {
		return fmt.Errorf("both --ftp and --md5 are required")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	cfg := types.TransferConfig{
		Timeout:       timeout,
		DownloadDelay: delay,
		OutputDir:     outputDir,
		Overwrite:     overwrite,
	}

	reads, err := fastq.UnpackFTP(ftpList, md5List)
	if err != nil {
		return err
	}

	outDir, err := fsutil.EnsureOutputDir(cfg.OutputDir)
	if err != nil {
		return err
	}

	// Map iteration order is random; keep read_1 before read_2.
	keys := make([]string, 0, len(reads))
	for k := range reads {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	reqs := make([]transfer.Request, 0, len(reads))
	for _, k := range keys {
		r := reads[k]
		reqs = append(reqs, transfer.Request{
			RemotePath: r.FTP,
			LocalPath:  filepath.Join(outDir, path.Base(r.FTP)),
			MD5:        r.MD5,
			Overwrite:  cfg.Overwrite,
		})
	}

	log := newLogger(cmd)
	d := transfer.NewDownloader(transfer.FTPFetcher{Timeout: cfg.Timeout}, log)

	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	result := d.FetchBatch(cmd.Context(), reqs, cfg.DownloadDelay, os.Stdout)

	if store != nil {
		if err := recordOutcomes(store, result.Outcomes); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed download or verification", result.Failed)
	}
	return nil
}

// recordOutcomes writes each batch outcome to the ledger.
func recordOutcomes(store *ledger.Store, outcomes []transfer.Outcome) error {
	for _, out := range outcomes {
		rec := ledger.DownloadRecord{
			LocalPath:  out.Request.LocalPath,
			RemotePath: out.Request.RemotePath,
			Digest:     out.Digest,
			Status:     ledger.StatusFetched,
		}
		switch {
		case out.Err != nil:
			rec.Status = ledger.StatusFailed
		case out.Skipped:
			rec.Status = ledger.StatusSkipped
		}
		if err := store.RecordDownload(rec); err != nil {
			return err
		}
	}
	return nil
}
