// Schema commands: load a schema document, show the resolved schema.
// Implements: prd006-ripple-cli R4; prd003-schema-model (resolution display).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the schema document",
}

var schemaLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Compile and install a schema document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "schema load:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.LoadSchema(args[0]); err != nil {
			// Compilation failures are user errors: bad document, action
			// conflicts, unknown targets.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}

		fmt.Printf("Schema loaded from %s (%d types)\n", args[0], len(backend.Schema().Types()))
		return nil
	},
}

// shownLink is the JSON shape of one resolved link in `schema show --json`.
type shownLink struct {
	Name        string `json:"name"`
	Target      string `json:"target"`
	Cardinality string `json:"cardinality"`
	Action      string `json:"on_target_delete"`
	Explicit    bool   `json:"explicit"`
}

type shownType struct {
	Name     string      `json:"name"`
	Abstract bool        `json:"abstract,omitempty"`
	Extends  []string    `json:"extends,omitempty"`
	Links    []shownLink `json:"links,omitempty"`
}

var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved schema with effective delete actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "schema show:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s := backend.Schema()
		if s == nil {
			fmt.Fprintln(os.Stderr, "no schema loaded (run `ripple schema load <file>`)")
			os.Exit(exitUserError)
		}

		var shown []shownType
		for _, name := range s.Types() {
			def, _ := s.Type(name)
			st := shownType{
				Name:     name,
				Abstract: def.Abstract,
				Extends:  def.Extends,
			}
			for _, el := range s.EffectiveLinks(name) {
				st.Links = append(st.Links, shownLink{
					Name:        el.Name,
					Target:      el.Target,
					Cardinality: string(el.Cardinality),
					Action:      string(el.Action),
					Explicit:    el.Explicit,
				})
			}
			shown = append(shown, st)
		}

		if flagJSON {
			return printJSON(shown)
		}

		for _, st := range shown {
			if st.Abstract {
				fmt.Printf("abstract type %s", st.Name)
			} else {
				fmt.Printf("type %s", st.Name)
			}
			if len(st.Extends) > 0 {
				fmt.Print(" extends ")
				for i, e := range st.Extends {
					if i > 0 {
						fmt.Print(", ")
					}
					fmt.Print(e)
				}
			}
			fmt.Println()
			for _, l := range st.Links {
				marker := ""
				if !l.Explicit {
					marker = " (default)"
				}
				fmt.Printf("  %s -> %s [%s] on target delete: %s%s\n",
					l.Name, l.Target, l.Cardinality, l.Action, marker)
			}
		}
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaLoadCmd)
	schemaCmd.AddCommand(schemaShowCmd)
}
