// Shared helpers for ripple CLI commands.
// Implements: prd006-ripple-cli (R3, R8, R9).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/ripple/internal/sqlite"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// validTableNames lists the standard table names for error messages.
var validTableNames = []string{
	types.ObjectsTable,
	types.LinksTable,
}

// validTableNamesStr is a comma-separated list of valid table names for error output.
var validTableNamesStr = strings.Join(validTableNames, ", ")

// attachBackend resolves the data directory and schema file, creates a SQLite
// backend, and attaches it. The caller must defer backend.Detach(). Returns
// the attached backend or an error suitable for the CLI (prd006-ripple-cli R3).
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    dataDir,
		SchemaFile: resolveSchemaFile(),
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// isTableNotFound returns true if the error wraps ErrTableNotFound.
func isTableNotFound(err error) bool {
	return errors.Is(err, types.ErrTableNotFound)
}

// isEntityNotFound returns true if the error wraps ErrNotFound.
func isEntityNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// exitOnDeleteError prints a constraint violation to stderr and exits with the
// user-error code; other errors exit with the system-error code.
func exitOnDeleteError(err error) {
	var cv *types.ConstraintViolationError
	if errors.As(err, &cv) {
		fmt.Fprintln(os.Stderr, cv.Error())
		os.Exit(exitUserError)
	}
	if isEntityNotFound(err) {
		fmt.Fprintln(os.Stderr, "object not found")
		os.Exit(exitUserError)
	}
	fmt.Fprintln(os.Stderr, "delete:", err)
	os.Exit(exitSysError)
}
