package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/austinSCG/qebil/internal/document"
	"github.com/austinSCG/qebil/internal/fsutil"
	"github.com/austinSCG/qebil/internal/ledger"
	"github.com/austinSCG/qebil/internal/scan"
	"github.com/austinSCG/qebil/pkg/types"
)

const defaultTimeout = 60 * time.Second

var scanCmd = &cobra.Command{
	Use:   "scan [documents...]",
	Short: "Scan documents for verified study accessions",
	Long: `Scan tokenizes each document (local file, PDF, web page, or DOI) and
looks for study accession identifiers with the accepted prefixes. Every
candidate is confirmed against the ENA browser before it is reported.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	scanCmd.Flags().StringSlice("stems", nil, "accepted accession prefixes (default PRJEB,PRJNA,ERP,SRP)")
	scanCmd.Flags().String("output-dir", "", "write a YAML scan report per document into this directory")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document references (paths, URLs, or DOIs)")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	stems, _ := cmd.Flags().GetStringSlice("stems")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if len(stems) == 0 {
		stems = scan.DefaultStems
	}

	cfg := types.ScanConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		Stems:      stems,
		OutputDir:  outputDir,
	}

	log := newLogger(cmd)
	client := &http.Client{Timeout: cfg.Timeout}
	tokenizer := document.NewTokenizer(client, document.DocconvExtractor{}, cfg.UserAgent, log)
	scanner := scan.NewScanner(client, cfg.Stems, cfg.UserAgent, log)

	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if cfg.OutputDir != "" {
		if cfg.OutputDir, err = fsutil.EnsureOutputDir(cfg.OutputDir); err != nil {
			return err
		}
	}

	for _, ref := range args {
		tokens, err := tokenizer.Tokenize(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", ref, err)
		}

		out := scanner.Scan(cmd.Context(), tokens)
		fmt.Printf("%s: %d accession(s)\n", ref, len(out.Accessions))
		for _, acc := range out.Accessions {
			fmt.Println("  " + acc)
		}

		if store != nil && len(out.Accessions) > 0 {
			if err := store.RecordAccessions(ref, out.Accessions); err != nil {
				return err
			}
		}

		if cfg.OutputDir != "" {
			path := filepath.Join(cfg.OutputDir, reportName(ref))
			if err := scan.WriteScanFile(path, ref, cfg.Stems, len(tokens), out); err != nil {
				return fmt.Errorf("writing scan report for %s: %w", ref, err)
			}
		}
	}
	return nil
}

// reportName derives a filesystem-safe report filename from a document
// reference.
func reportName(ref string) string {
	base := filepath.Base(strings.NewReplacer(":", "-", "?", "-", "&", "-").Replace(ref))
	if base == "" || base == "." || base == string(os.PathSeparator) {
		base = "document"
	}
	return base + ".scan.yaml"
}

// openLedger opens the ledger store when --ledger-dir is set.
func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	dir, _ := cmd.Flags().GetString("ledger-dir")
	if dir == "" {
		return nil, nil
	}
	return ledger.Open(dir)
}
