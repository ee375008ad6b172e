package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/lmgen/compiler"
	"github.com/syssam/lmgen/compiler/load"
)

// NewValidateCmd builds the `validate` command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate logical model files",
		Long: `Validate checks the structure and the referential integrity of the given
model files. Directories contribute their *.yaml and *.yml files.`,
		Example: "  lmgen validate models/\n  lmgen validate models/tracker.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := compiler.Check(paths(args)...)
			if results == nil {
				return err
			}
			if printValidation(cmd.OutOrStdout(), results) > 0 {
				return errFailed
			}
			return nil
		},
	}
}

// printValidation prints one entry per file and a summary. It returns the
// number of invalid files.
func printValidation(w io.Writer, results []*load.Result) int {
	failed := 0
	fmt.Fprintf(w, "Target Files: %d file(s)\n\n", len(results))
	for _, r := range results {
		fmt.Fprintf(w, "Testing: %s ...\n", r.File)
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  Warning: %s\n", warn)
		}
		if len(r.Errors) == 0 {
			fmt.Fprint(w, "  OK\n\n")
			continue
		}
		failed++
		fmt.Fprintln(w, "  Failed:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "     - %s\n", e)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "---------------------------------------------------")
	if failed == 0 {
		fmt.Fprintln(w, "All files passed validation successfully!")
	} else {
		fmt.Fprintf(w, "Process finished with errors in %d file(s).\n", failed)
	}
	return failed
}
