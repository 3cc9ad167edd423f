// Exec command runs a YAML script of statements inside one transaction.
// Deferred restrict checks queued by deletes are judged once, at commit,
// against the script's final state.
// Implements: prd006-ripple-cli R7; prd005-cascade-engine (deferred queue).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ripple/internal/sqlite"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// scriptStep is one statement in an exec script. Exactly one of the op
// fields must be set.
type scriptStep struct {
	// insert: creates an object; its id becomes available to later steps
	// under the given alias ($alias).
	Insert *struct {
		Type string `yaml:"type"`
		Name string `yaml:"name"`
		As   string `yaml:"as"`
	} `yaml:"insert,omitempty"`

	// link: replaces the named link's targets on the source.
	Link *struct {
		Source  string   `yaml:"source"`
		Name    string   `yaml:"name"`
		Targets []string `yaml:"targets"`
	} `yaml:"link,omitempty"`

	// clear: removes all targets of the named link.
	Clear *struct {
		Source string `yaml:"source"`
		Name   string `yaml:"name"`
	} `yaml:"clear,omitempty"`

	// delete: cascading delete of the listed objects.
	Delete []string `yaml:"delete,omitempty"`
}

type execScript struct {
	Steps []scriptStep `yaml:"steps"`
}

var execCmd = &cobra.Command{
	Use:   "exec <script.yaml>",
	Short: "Run a script of statements in one transaction",
	Long: `Exec runs the statements of a YAML script inside a single transaction.
All statements see each other's effects; deferred restrict checks are judged
once at commit, so a script may delete a still-referenced object as long as
a later step clears, retargets, or deletes the referencing link.

Script format:
  steps:
    - insert: {type: Task, name: "fix build", as: t}
    - link:   {source: $t, name: owner, targets: ["0198..."]}
    - delete: [$t]

$alias references resolve to the id of the insert step that declared the alias.

Example:
  ripple exec migration.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "exec:", err)
			os.Exit(exitUserError)
		}

		var script execScript
		if err := yaml.Unmarshal(data, &script); err != nil {
			fmt.Fprintf(os.Stderr, "exec: parse %s: %s\n", args[0], err)
			os.Exit(exitUserError)
		}
		if len(script.Steps) == 0 {
			fmt.Fprintln(os.Stderr, "exec: script has no steps")
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "exec:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		tx, err := backend.Begin()
		if err != nil {
			fmt.Fprintln(os.Stderr, "exec:", err)
			os.Exit(exitSysError)
		}
		defer tx.Rollback()

		aliases := make(map[string]string)
		for i, step := range script.Steps {
			if err := runStep(tx, step, aliases); err != nil {
				var cv *types.ConstraintViolationError
				if errors.As(err, &cv) {
					fmt.Fprintf(os.Stderr, "step %d: %s\n", i+1, cv.Error())
					os.Exit(exitUserError)
				}
				fmt.Fprintf(os.Stderr, "step %d: %s\n", i+1, err)
				os.Exit(exitUserError)
			}
		}

		if err := tx.Commit(); err != nil {
			exitOnDeleteError(err)
		}

		fmt.Printf("Executed %d step(s)\n", len(script.Steps))
		for alias, id := range aliases {
			fmt.Printf("  $%s = %s\n", alias, id)
		}
		return nil
	},
}

// runStep executes one script statement against the open transaction.
func runStep(tx *sqlite.Tx, step scriptStep, aliases map[string]string) error {
	switch {
	case step.Insert != nil:
		id, err := tx.InsertObject(step.Insert.Type, step.Insert.Name)
		if err != nil {
			return err
		}
		if step.Insert.As != "" {
			aliases[step.Insert.As] = id
		}
		return nil

	case step.Link != nil:
		targets := make([]string, len(step.Link.Targets))
		for i, t := range step.Link.Targets {
			targets[i] = resolveAlias(t, aliases)
		}
		return tx.SetLinkTargets(resolveAlias(step.Link.Source, aliases), step.Link.Name, targets)

	case step.Clear != nil:
		return tx.ClearLink(resolveAlias(step.Clear.Source, aliases), step.Clear.Name)

	case len(step.Delete) > 0:
		ids := make([]string, len(step.Delete))
		for i, id := range step.Delete {
			ids[i] = resolveAlias(id, aliases)
		}
		_, err := tx.DeleteCascade(ids)
		return err

	default:
		return fmt.Errorf("empty step (expected insert, link, clear, or delete)")
	}
}

// resolveAlias maps $alias references to inserted ids; anything else passes
// through as a literal id.
func resolveAlias(ref string, aliases map[string]string) string {
	if len(ref) > 1 && ref[0] == '$' {
		if id, ok := aliases[ref[1:]]; ok {
			return id
		}
	}
	return ref
}
