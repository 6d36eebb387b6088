package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinSCG/qebil/internal/fastq"
)

var validateCmd = &cobra.Command{
	Use:   "validate [fastq.gz files...]",
	Short: "Check downloaded fastq files for structural integrity",
	Long: `Validate checks that each fastq.gz file decompresses cleanly, that every
record is well formed, and that the final record is intact. With --counts and
exactly two files, the paired read counts are compared as well.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("counts", false, "compare read counts of a file pair")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more fastq.gz files")
	}

	counts, _ := cmd.Flags().GetBool("counts")
	if counts && len(args) != 2 {
		return fmt.Errorf("--counts requires exactly two files")
	}

	failed := 0
	for _, path := range args {
		switch {
		case !fastq.CheckValid(path):
			fmt.Printf("invalid: %s\n", path)
			failed++
		case !fastq.CheckTail(path):
			fmt.Printf("truncated: %s\n", path)
			failed++
		default:
			fmt.Printf("ok:      %s\n", path)
		}
	}

	if counts {
		n, err := fastq.ReadCount(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("paired reads: %d\n", n)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed validation", failed)
	}
	return nil
}
