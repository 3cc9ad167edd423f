// YAML schema document loading.
// Implements: prd003-schema-model R1 (schema documents);
//
//	prd006-ripple-cli R3 (schema load).
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// schemaDoc is the YAML shape of a schema document.
type schemaDoc struct {
	Types []typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name     string    `yaml:"name"`
	Abstract bool      `yaml:"abstract"`
	Extends  []string  `yaml:"extends"`
	Links    []linkDoc `yaml:"links"`
}

type linkDoc struct {
	Name           string `yaml:"name"`
	Target         string `yaml:"target"`
	Cardinality    string `yaml:"cardinality"`
	OnTargetDelete string `yaml:"on_target_delete"`
}

// Load reads and compiles the schema document at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	return Parse(data)
}

// Parse compiles a YAML schema document. Action and cardinality strings are
// validated during resolution; Parse only maps document shape to TypeDefs.
func Parse(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	if len(doc.Types) == 0 {
		return nil, types.NewSchemaError("schema document declares no types")
	}

	defs := make([]*TypeDef, 0, len(doc.Types))
	for _, td := range doc.Types {
		def := &TypeDef{
			Name:     td.Name,
			Extends:  td.Extends,
			Abstract: td.Abstract,
		}
		for _, ld := range td.Links {
			def.Links = append(def.Links, &LinkDef{
				Name:        ld.Name,
				Target:      ld.Target,
				Cardinality: types.Cardinality(ld.Cardinality),
				Action:      types.DeleteAction(ld.OnTargetDelete),
			})
		}
		defs = append(defs, def)
	}
	return Resolve(defs)
}
