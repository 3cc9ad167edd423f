// Package main provides the ripple CLI, a thin front-end over the SQLite
// store for schema-driven objects and links.
// Implements: prd006-ripple-cli R1; docs/ARCHITECTURE § CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
