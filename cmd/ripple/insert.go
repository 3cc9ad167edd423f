// Insert command creates a new object of a concrete schema type.
// Implements: prd006-ripple-cli R5.1.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

var insertCmd = &cobra.Command{
	Use:   "insert <type> <name>",
	Short: "Insert an object",
	Long: `Insert creates a new object of the given concrete schema type.

Example:
  ripple insert Task "fix the build"
  ripple insert User alice`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, name := args[0], args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "insert:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		objects, err := backend.GetTable(types.ObjectsTable)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		id, err := objects.Set("", &types.Object{Type: typeName, Name: name})
		if err != nil {
			switch {
			case errors.Is(err, types.ErrTypeNotFound):
				fmt.Fprintf(os.Stderr, "unknown type %q\n", typeName)
				os.Exit(exitUserError)
			case errors.Is(err, types.ErrAbstractType):
				fmt.Fprintf(os.Stderr, "type %q is abstract and cannot be instantiated\n", typeName)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "insert:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			obj, err := objects.Get(id)
			if err != nil {
				fmt.Fprintln(os.Stderr, "insert:", err)
				os.Exit(exitSysError)
			}
			return printJSON(obj)
		}
		fmt.Println(id)
		return nil
	},
}
