// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qebil CLI: it resolves study
// accessions from documents, fetches sequence files with integrity
// verification, and validates the results.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "qebil/0.1"

// rootCmd is the base command for the qebil CLI.
var rootCmd = &cobra.Command{
	Use:   "qebil",
	Short: "Resolve study accessions and fetch verified sequence files",
	Long: `qebil resolves ENA/EBI study accessions from documents (papers, web
pages, DOIs) and retrieves the associated sequence files with checksum
verification. Existing valid files are never re-downloaded.

Each stage is a subcommand: scan finds accessions in documents, info resolves
study/project identifier pairs, fetch downloads files, and validate checks
fastq integrity.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qebil.yaml or ~/.config/qebil/config.yaml)")
	rootCmd.PersistentFlags().String("ledger-dir", "", "directory for the scan/download ledger database (empty disables it)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at debug level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qebil")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qebil"))
		}
	}

	viper.SetEnvPrefix("QEBIL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the logger threaded through every component. Components
// never reach for a global logger; the CLI owns the lifecycle.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
