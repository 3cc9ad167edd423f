// Root command for the ripple CLI.
// Implements: prd006-ripple-cli (R1, R8); prd007-configuration-directories (R1, R2, R8).
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ripple/internal/paths"
	"github.com/mesh-intelligence/ripple/pkg/ripple"
)

// Exit codes per prd006-ripple-cli R8.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagSchema    string
	flagJSON      bool
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir    string
	configSchemaFile string
)

var rootCmd = &cobra.Command{
	Use:     "ripple",
	Short:   "Ripple is a schema-driven object store with cascading deletes",
	Version: ripple.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configSchemaFile = cfg.GetString(cfgKeySchemaFile)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.ripple)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.ripple-db)")
	rootCmd.PersistentFlags().StringVar(&flagSchema, "schema", "", "schema file (default: <data-dir>/schema.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(loadCmd)
}

// resolveDataDir returns the data directory path following prd007 R2.3
// precedence: --data-dir flag > config.yaml data_dir > RIPPLE_DATA_DIR env >
// default $(CWD)/.ripple-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following prd007 R1.3
// precedence: --config-dir flag > RIPPLE_CONFIG_DIR env > $(CWD)/.ripple.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveSchemaFile returns the schema file path, or empty when the backend
// should fall back to the copy persisted in the data directory.
func resolveSchemaFile() string {
	if flagSchema != "" {
		return flagSchema
	}
	return configSchemaFile
}
