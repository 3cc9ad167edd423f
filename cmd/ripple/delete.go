// Delete command removes objects, applying the schema's on-target-delete
// actions: restricting links abort, set-empty links clear, delete-source
// links cascade.
// Implements: prd006-ripple-cli R5.4; prd005-cascade-engine (execution).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete objects, cascading per the schema",
	Long: `Delete removes the given objects in one transaction. Inbound links
decide what happens: restrict aborts the whole delete, set-empty clears the
referencing link, delete-source removes the referencing object too, and
deferred-restrict re-checks at commit.

Example:
  ripple delete 0198...
  ripple delete 0198... 0199...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		tx, err := backend.Begin()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer tx.Rollback()

		plan, err := tx.DeleteCascade(args)
		if err != nil {
			exitOnDeleteError(err)
		}
		if err := tx.Commit(); err != nil {
			// A deferred restrict that still holds fails here.
			exitOnDeleteError(err)
		}

		if flagJSON {
			return printJSON(plan)
		}
		fmt.Printf("Deleted %d object(s)\n", len(plan.DeleteSet))
		for _, id := range plan.DeleteSet {
			fmt.Println(" ", id)
		}
		return nil
	},
}
