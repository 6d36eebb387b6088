package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/austinSCG/qebil/internal/ena"
	"github.com/austinSCG/qebil/internal/projectfile"
)

var infoCmd = &cobra.Command{
	Use:   "info [accessions...]",
	Short: "Resolve study and project identifier pairs from ENA",
	Long: `Info fetches the ENA browser record for each accession and reports the
paired study and project identifiers. Accessions can be given as arguments or
loaded from a tab-separated project file with a study_id column.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	infoCmd.Flags().String("project-file", "", "load accessions from a study_id TSV file")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	accessions := args
	if projectFile, _ := cmd.Flags().GetString("project-file"); projectFile != "" {
		fromFile, err := projectfile.Load(projectFile)
		if err != nil {
			return err
		}
		accessions = append(accessions, fromFile...)
	}
	if len(accessions) == 0 {
		return fmt.Errorf("provide accessions as arguments or via --project-file")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	log := newLogger(cmd)
	client := &http.Client{Timeout: timeout}

	failed := 0
	for _, acc := range accessions {
		doc, err := ena.FetchStudy(cmd.Context(), client, acc, defaultUserAgent)
		if err != nil {
			fmt.Printf("%s: %v\n", acc, err)
			failed++
			continue
		}
		ids, err := ena.ParseIdentifiers(doc, log)
		if err != nil {
			fmt.Printf("%s: %v\n", acc, err)
			failed++
			continue
		}
		fmt.Printf("%s: study=%s project=%s\n", acc, ids.Study, ids.Project)
	}

	if failed > 0 {
		return fmt.Errorf("%d accession(s) could not be resolved", failed)
	}
	return nil
}
