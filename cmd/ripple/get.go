// Get command retrieves an entity by ID from a table.
// Implements: prd006-ripple-cli R6.1.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <id>",
	Short: "Get an entity by ID",
	Long: `Get retrieves an entity from the specified table by its ID.

Valid table names: objects, links

Example:
  ripple get objects 0198...
  ripple get links 0199...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName, id := args[0], args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
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

		entity, err := table.Get(id)
		if err != nil {
			if isEntityNotFound(err) {
				fmt.Fprintf(os.Stderr, "entity %q not found in table %q\n", id, tableName)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get entity:", err)
			os.Exit(exitSysError)
		}

		return printJSON(entity)
	},
}
