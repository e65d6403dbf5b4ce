package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/auditmd/auditmd/internal/checklist"
)

var checklistsCmd = &cobra.Command{
	Use:   "checklists",
	Short: "List and inspect audit checklists",
}

var checklistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in checklists",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range checklist.Names() {
			c, err := checklist.Load(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%-15s %s (%d rules)\n", name, c.Meta.Title, len(c.Rules))
		}
		return nil
	},
}

var checklistsShowCmd = &cobra.Command{
	Use:   "show <name-or-path>",
	Short: "Print a checklist document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := checklist.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		fmt.Fprint(os.Stdout, c.Raw)
		return nil
	},
}

func init() {
	checklistsCmd.AddCommand(checklistsListCmd)
	checklistsCmd.AddCommand(checklistsShowCmd)
}
