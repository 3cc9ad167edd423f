// Version command for the ripple CLI.
// Implements: prd006-ripple-cli R2.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ripple/pkg/ripple"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ripple v" + ripple.Version)
	},
}
