// Package schema compiles type definitions into a resolved schema: the type
// DAG, the effective on-target-delete action of every link on every type,
// and the inbound-link index consulted by the delete planner.
// Implements: prd003-schema-model (type DAG, link declarations, resolution);
//
//	docs/ARCHITECTURE § Schema Compilation.
package schema

import (
	"sort"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// TypeDef is one type in the schema document: its identity, ordered direct
// supertypes, and own link declarations.
type TypeDef struct {
	Name     string
	Extends  []string
	Abstract bool
	Links    []*LinkDef
}

// LinkDef is a link declaration on a type. An empty Action means the
// declaration carries no explicit on-target-delete clause: either a fresh
// link defaulting to restrict, or a title-only redeclaration of an inherited
// link, which does not count as explicit during resolution.
type LinkDef struct {
	Name        string
	Target      string
	Cardinality types.Cardinality // empty defaults to single
	Action      types.DeleteAction
}

// EffectiveLink is the resolved form of a link on one type: the single
// action that applies after inheritance resolution.
type EffectiveLink struct {
	// Source is the type this resolution belongs to. In the inbound index
	// it is always a concrete type.
	Source string

	Name        string
	Target      string
	Cardinality types.Cardinality

	// Action is the resolved on-target-delete action.
	Action types.DeleteAction

	// Explicit records whether an explicit declaration exists on Source or
	// any ancestor. Inherited by subtypes; a non-explicit restrict is the
	// ancestry-wide default.
	Explicit bool
}

// Schema is the compiled, immutable result of Resolve. It is owned by the
// schema collaborator and replaced wholesale on schema change.
type Schema struct {
	defs      map[string]*TypeDef
	order     []string // topological, supertypes before subtypes
	ancestors map[string]map[string]bool
	effective map[string]map[string]*EffectiveLink
	inbound   map[string][]*EffectiveLink
}

// Type returns the definition of the named type.
func (s *Schema) Type(name string) (*TypeDef, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Types returns all type names in topological order, supertypes first.
func (s *Schema) Types() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// IsAbstract reports whether the named type is abstract. Unknown types are
// not abstract.
func (s *Schema) IsAbstract(name string) bool {
	d, ok := s.defs[name]
	return ok && d.Abstract
}

// IsSubtype reports whether sub is super or a (transitive) subtype of super.
func (s *Schema) IsSubtype(sub, super string) bool {
	if sub == super {
		_, ok := s.defs[sub]
		return ok
	}
	return s.ancestors[sub][super]
}

// EffectiveLinks returns the resolved links of the named type, sorted by
// link name.
func (s *Schema) EffectiveLinks(typeName string) []*EffectiveLink {
	m := s.effective[typeName]
	out := make([]*EffectiveLink, 0, len(m))
	for _, el := range m {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EffectiveLink returns the resolved link with the given name on the named
// type, whether declared there or inherited.
func (s *Schema) EffectiveLink(typeName, linkName string) (*EffectiveLink, bool) {
	el, ok := s.effective[typeName][linkName]
	return el, ok
}

// InboundLinks returns every effective link in the schema whose target type
// set subsumes the given concrete type, including links declared against a
// supertype of it. One entry per concrete source type. Entries are grouped
// by (action, cardinality) for planning.
func (s *Schema) InboundLinks(concreteType string) []*EffectiveLink {
	return s.inbound[concreteType]
}

// ConcreteDescendants returns the concrete types subsumed by the named type:
// itself if concrete, plus every concrete subtype. Sorted by name.
func (s *Schema) ConcreteDescendants(name string) []string {
	var out []string
	for _, t := range s.order {
		if s.defs[t].Abstract {
			continue
		}
		if t == name || s.ancestors[t][name] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
