// Dump and load commands move store contents through the JSONL dump format.
// Implements: prd006-ripple-cli R9; prd002-sqlite-backend (JSONL export/import).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Export objects and links as JSONL",
	Long: `Dump writes every object and link as one JSON record per line,
objects first. With no file argument the dump goes to stdout.

Example:
  ripple dump backup.jsonl
  ripple dump > backup.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "dump:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		out := os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, "dump:", err)
				os.Exit(exitSysError)
			}
			defer f.Close()
			out = f
		}

		if err := backend.Export(out); err != nil {
			fmt.Fprintln(os.Stderr, "dump:", err)
			os.Exit(exitSysError)
		}
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Import a JSONL dump",
	Long: `Load reads a JSONL dump produced by dump and inserts its records in
one transaction. Existing rows with the same id are replaced, and the
restored graph is validated against the loaded schema before commit.

Example:
  ripple load backup.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(exitUserError)
		}
		defer f.Close()

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.Import(f); err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(exitUserError)
		}

		fmt.Printf("Loaded %s\n", args[0])
		return nil
	},
}
