package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/auditmd/auditmd/internal/config"
	"github.com/auditmd/auditmd/internal/session"
)

var reviewCmd = &cobra.Command{
	Use:   "review <session-file>",
	Short: "Resume an interactive review session",
	Long:  "Review resumes a saved session file, presenting the pending records for approval. When every record has a decision the frozen report is exported and the session file removed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err != nil {
			return err
		}

		sessionPath := args[0]
		draft, err := session.LoadDraft(sessionPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		if draft.Pending() == 0 {
			fmt.Fprintln(os.Stderr, "Session has no pending records; exporting.")
		} else {
			reviewer := session.NewReviewer(os.Stdin, os.Stderr)
			quit, err := reviewer.Run(draft)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			if quit && draft.Pending() > 0 {
				if err := draft.Save(sessionPath); err != nil {
					fmt.Fprintf(os.Stderr, "Error saving session: %v\n", err)
					exitCode = ExitRuntimeError
					return nil
				}
				fmt.Fprintf(os.Stderr, "Session saved to %s (%d records pending).\n", sessionPath, draft.Pending())
				return nil
			}
		}

		report := draft.Freeze()
		_ = os.Remove(sessionPath)
		finishReport(report, cfg)
		return nil
	},
}

func init() {
	addAuditFlags(reviewCmd)
}
