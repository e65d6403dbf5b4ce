package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes: 0 clean, 1 findings at or above threshold (or invalid
// records for validate), 2 usage error, 3 auth error, 4 runtime error.
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "auditmd",
	Short: "Checklist-driven codebase audits with LLM providers",
	Long:  "Auditmd runs Markdown audit checklists (accessibility, security, architecture) against a codebase using LLM providers and emits validated issue records with deterministic exit codes.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(checklistsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print auditmd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "auditmd version %s\n", version)
	},
}
