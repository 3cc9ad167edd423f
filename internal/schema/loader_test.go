package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

const sampleSchema = `
types:
  - name: Named
    abstract: true
  - name: Target1
    extends: [Named]
  - name: Target1Child
    extends: [Target1]
  - name: Source1
    extends: [Named]
    links:
      - name: tgt1_restrict
        target: Target1
      - name: tgt1_deferred_restrict
        target: Target1
        on_target_delete: deferred-restrict
      - name: tgt1_set_empty
        target: Target1
        on_target_delete: set-empty
      - name: tgt1_del_source
        target: Target1
        on_target_delete: delete-source
      - name: tgt1_m2m_del_source
        target: Target1
        cardinality: multi
        on_target_delete: delete-source
`

func TestParseSampleSchema(t *testing.T) {
	s, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.True(t, s.IsAbstract("Named"))
	assert.True(t, s.IsSubtype("Target1Child", "Named"))

	el, ok := s.EffectiveLink("Source1", "tgt1_restrict")
	require.True(t, ok)
	assert.Equal(t, types.DeleteRestrict, el.Action)
	assert.False(t, el.Explicit, "no on_target_delete clause means default")
	assert.Equal(t, types.CardinalitySingle, el.Cardinality)

	el, ok = s.EffectiveLink("Source1", "tgt1_m2m_del_source")
	require.True(t, ok)
	assert.Equal(t, types.DeleteSource, el.Action)
	assert.Equal(t, types.CardinalityMulti, el.Cardinality)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "{types: ["},
		{name: "no types", doc: "types: []"},
		{
			name: "unknown action string",
			doc: `
types:
  - name: A
    links:
      - name: foo
        target: A
        on_target_delete: set_null
`,
		},
		{
			name: "unknown cardinality string",
			doc: `
types:
  - name: A
    links:
      - name: foo
        target: A
        cardinality: many
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSchema), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, s.Types(), "Source1")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
