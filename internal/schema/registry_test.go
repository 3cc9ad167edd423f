package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

func TestInboundLinksIncludeSupertypeTargets(t *testing.T) {
	s := mustResolve(t,
		&TypeDef{Name: "Target1"},
		&TypeDef{Name: "Target1Child", Extends: []string{"Target1"}},
		&TypeDef{Name: "Source1", Links: []*LinkDef{
			link("tgt1_restrict", "Target1", types.DeleteRestrict),
		}},
	)

	// A link declared against Target1 can reference a Target1Child row, so
	// it must appear in the child's inbound set.
	for _, target := range []string{"Target1", "Target1Child"} {
		entries := s.InboundLinks(target)
		require.Len(t, entries, 1, "inbound of %s", target)
		assert.Equal(t, "Source1", entries[0].Source)
		assert.Equal(t, "tgt1_restrict", entries[0].Name)
		assert.Equal(t, types.DeleteRestrict, entries[0].Action)
	}
}

func TestInboundLinksPerConcreteSourceType(t *testing.T) {
	// Object2 inherits set-empty, Object3 overrides to restrict: the target
	// sees one entry per concrete source type with that type's own action.
	s := mustResolve(t,
		&TypeDef{Name: "Target"},
		&TypeDef{Name: "Object", Links: []*LinkDef{
			link("foo", "Target", types.DeleteSetEmpty),
		}},
		&TypeDef{Name: "Object2", Extends: []string{"Object"}},
		&TypeDef{Name: "Object3", Extends: []string{"Object"}, Links: []*LinkDef{
			link("foo", "Target", types.DeleteRestrict),
		}},
	)

	entries := s.InboundLinks("Target")
	require.Len(t, entries, 3)

	actions := map[string]types.DeleteAction{}
	for _, e := range entries {
		actions[e.Source] = e.Action
	}
	assert.Equal(t, types.DeleteSetEmpty, actions["Object"])
	assert.Equal(t, types.DeleteSetEmpty, actions["Object2"])
	assert.Equal(t, types.DeleteRestrict, actions["Object3"])
}

func TestInboundLinksExcludeAbstractSources(t *testing.T) {
	s := mustResolve(t,
		&TypeDef{Name: "Target"},
		&TypeDef{Name: "Base", Abstract: true, Links: []*LinkDef{
			link("ref", "Target", types.DeleteSource),
		}},
		&TypeDef{Name: "Concrete", Extends: []string{"Base"}},
	)

	entries := s.InboundLinks("Target")
	require.Len(t, entries, 1)
	assert.Equal(t, "Concrete", entries[0].Source)
}

func TestInboundLinksGroupedByAction(t *testing.T) {
	s := mustResolve(t,
		&TypeDef{Name: "Target"},
		&TypeDef{Name: "S1", Links: []*LinkDef{
			link("a_del", "Target", types.DeleteSource),
			link("b_clear", "Target", types.DeleteSetEmpty),
			link("c_restrict", "Target", types.DeleteRestrict),
			link("d_deferred", "Target", types.DeleteDeferredRestrict),
		}},
	)

	entries := s.InboundLinks("Target")
	require.Len(t, entries, 4)

	var got []types.DeleteAction
	for _, e := range entries {
		got = append(got, e.Action)
	}
	// Restrict first so the planner hits violations before anything else.
	assert.Equal(t, []types.DeleteAction{
		types.DeleteRestrict,
		types.DeleteDeferredRestrict,
		types.DeleteSetEmpty,
		types.DeleteSource,
	}, got)
}

func TestInboundLinksEmptyForUnreferencedType(t *testing.T) {
	s := mustResolve(t,
		&TypeDef{Name: "Lonely"},
	)
	assert.Empty(t, s.InboundLinks("Lonely"))
}
