package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/auditmd/auditmd/internal/record"
)

var (
	flagValidateStrict bool
	flagValidateRoot   string
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a JSON document of issue records",
	Long:  "Validate checks every record in a JSON document (a bare array or a report envelope) against the issue record schema. Each invalid record is reported with all of its violations; valid records are never discarded because of invalid neighbors. With --strict, file:line locations must also resolve under --root. Reads stdin when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		verdicts, err := record.ValidateDocument(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		if flagValidateStrict {
			for i, v := range verdicts {
				if !v.Valid {
					continue
				}
				if err := record.ResolveLocation(flagValidateRoot, v.Record.Location); err != nil {
					verdicts[i].Valid = false
					verdicts[i].Reasons = append(verdicts[i].Reasons, err.Error())
				}
			}
		}

		printVerdicts(verdicts)

		for _, v := range verdicts {
			if !v.Valid {
				exitCode = ExitFindings
				return nil
			}
		}
		return nil
	},
}

func printVerdicts(verdicts []record.Verdict) {
	valid := 0
	for _, v := range verdicts {
		if v.Valid {
			valid++
		}
	}

	fmt.Fprintf(os.Stdout, "%d records: %d valid, %d invalid\n", len(verdicts), valid, len(verdicts)-valid)
	for _, v := range verdicts {
		if v.Valid {
			continue
		}
		label := v.Record.Issue
		if label == "" {
			label = fmt.Sprintf("record %d", v.Index)
		}
		fmt.Fprintf(os.Stdout, "\n[%d] %s\n", v.Index, label)
		for _, reason := range v.Reasons {
			fmt.Fprintf(os.Stdout, "  - %s\n", reason)
		}
	}
}

func init() {
	validateCmd.Flags().BoolVar(&flagValidateStrict, "strict", false, "Also check that file locations resolve under --root")
	validateCmd.Flags().StringVar(&flagValidateRoot, "root", ".", "Root directory for --strict location resolution")
}
