// Link commands: set (replace) and clear link targets on an object.
// Implements: prd006-ripple-cli R5.2, R5.3.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage links between objects",
}

var linkSetCmd = &cobra.Command{
	Use:   "set <source-id> <link-name> <target-id>...",
	Short: "Replace a link's targets",
	Long: `Set replaces the targets of the named link on the source object.
A single-cardinality link accepts exactly one target; a multi link accepts
any number. Existing targets are cleared first, so set is also how a link
is retargeted.

Example:
  ripple link set 0198... owner 0199...
  ripple link set 0198... members 0199... 019a...`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceID, linkName, targetIDs := args[0], args[1], args[2:]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "link set:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		tx, err := backend.Begin()
		if err != nil {
			fmt.Fprintln(os.Stderr, "link set:", err)
			os.Exit(exitSysError)
		}
		defer tx.Rollback()

		if err := tx.SetLinkTargets(sourceID, linkName, targetIDs); err != nil {
			exitOnLinkError(err, linkName)
		}
		if err := tx.Commit(); err != nil {
			fmt.Fprintln(os.Stderr, "link set:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Set %s on %s (%d target(s))\n", linkName, sourceID, len(targetIDs))
		return nil
	},
}

var linkClearCmd = &cobra.Command{
	Use:   "clear <source-id> <link-name>",
	Short: "Clear all targets of a link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceID, linkName := args[0], args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "link clear:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		tx, err := backend.Begin()
		if err != nil {
			fmt.Fprintln(os.Stderr, "link clear:", err)
			os.Exit(exitSysError)
		}
		defer tx.Rollback()

		if err := tx.ClearLink(sourceID, linkName); err != nil {
			exitOnLinkError(err, linkName)
		}
		if err := tx.Commit(); err != nil {
			fmt.Fprintln(os.Stderr, "link clear:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Cleared %s on %s\n", linkName, sourceID)
		return nil
	},
}

// exitOnLinkError maps link statement errors onto exit codes.
func exitOnLinkError(err error, linkName string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		fmt.Fprintln(os.Stderr, "source object not found")
		os.Exit(exitUserError)
	case errors.Is(err, types.ErrLinkNotFound):
		fmt.Fprintf(os.Stderr, "no link %q on the source's type\n", linkName)
		os.Exit(exitUserError)
	case errors.Is(err, types.ErrCardinality):
		fmt.Fprintf(os.Stderr, "link %q is single-cardinality\n", linkName)
		os.Exit(exitUserError)
	case errors.Is(err, types.ErrTargetMismatch):
		fmt.Fprintf(os.Stderr, "target is not an instance of %q's target type\n", linkName)
		os.Exit(exitUserError)
	case errors.Is(err, types.ErrDuplicateLink):
		fmt.Fprintf(os.Stderr, "link %q already holds that target\n", linkName)
		os.Exit(exitUserError)
	}
	fmt.Fprintln(os.Stderr, "link:", err)
	os.Exit(exitSysError)
}

func init() {
	linkCmd.AddCommand(linkSetCmd)
	linkCmd.AddCommand(linkClearCmd)
}
