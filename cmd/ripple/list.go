// List command queries entities from a table with optional filtering.
// Implements: prd006-ripple-cli R6.2.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [filter...]",
	Short: "List entities with optional filter",
	Long: `List queries entities from the specified table with optional filters.

Filters are specified as key=value pairs. Multiple filters are ANDed together.
An empty filter returns all entities in the table. Filtering objects by type
includes rows of the type's concrete subtypes.

Valid table names: objects, links

Example:
  ripple list objects
  ripple list objects type=Task
  ripple list links source_id=0198...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName, filterArgs := args[0], args[1:]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		table, err := backend.GetTable(tableName)
		if err != nil {
			if isTableNotFound(err) {
				fmt.Fprintf(os.Stderr, "unknown table %q (valid: %s)\n", tableName, validTableNamesStr)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		filter := make(map[string]any)
		for _, arg := range filterArgs {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				fmt.Fprintf(os.Stderr, "invalid filter %q (expected key=value)\n", arg)
				os.Exit(exitUserError)
			}
			filter[parts[0]] = parts[1]
		}

		entities, err := table.Fetch(filter)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fetch entities:", err)
			os.Exit(exitSysError)
		}

		return printJSON(entities)
	},
}
