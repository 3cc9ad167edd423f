// Inheritance resolution for on-target-delete actions.
// Implements: prd003-schema-model R2-R5 (ancestor merge, explicit override,
//
//	conflict failure); prd004-delete-policies R1 (restrict default).
package schema

import (
	"sort"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// Resolve compiles type definitions into a Schema. It validates the type
// DAG, resolves the effective action of every link on every type, and
// builds the inbound-link index.
//
// Resolution walks types from base to derived, so each type merges only the
// already-resolved link state of its direct supertypes. That keeps the work
// linear in (types × links) across diamond hierarchies: a supertype is
// resolved once no matter how many paths reach it.
//
// Merge rules per link name:
//   - an explicit declaration on the type itself always wins;
//   - otherwise all explicitly resolved ancestor actions must agree, and
//     their shared value is adopted;
//   - ancestors that only carry the default contribute nothing; no explicit
//     declaration anywhere yields restrict;
//   - differing explicit ancestor actions without an override fail with a
//     SchemaError naming the type and link.
func Resolve(defs []*TypeDef) (*Schema, error) {
	s := &Schema{
		defs:      make(map[string]*TypeDef, len(defs)),
		ancestors: make(map[string]map[string]bool, len(defs)),
		effective: make(map[string]map[string]*EffectiveLink, len(defs)),
		inbound:   make(map[string][]*EffectiveLink),
	}

	for _, d := range defs {
		if d.Name == "" {
			return nil, types.NewSchemaError("type with empty name")
		}
		if _, dup := s.defs[d.Name]; dup {
			return nil, types.NewSchemaError("duplicate type %q", d.Name)
		}
		s.defs[d.Name] = d
	}

	if err := s.validateDefs(); err != nil {
		return nil, err
	}
	if err := s.sortTypes(); err != nil {
		return nil, err
	}
	s.buildAncestors()

	for _, name := range s.order {
		if err := s.resolveType(name); err != nil {
			return nil, err
		}
	}

	s.buildInbound()
	return s, nil
}

// validateDefs checks supertype references, link targets, and declared
// action/cardinality values.
func (s *Schema) validateDefs() error {
	for _, d := range s.defs {
		for _, super := range d.Extends {
			if _, ok := s.defs[super]; !ok {
				return types.NewSchemaError(
					"unknown supertype %q for type %q", super, d.Name)
			}
		}
		seen := make(map[string]bool, len(d.Links))
		for _, l := range d.Links {
			if l.Name == "" {
				return types.NewSchemaError("type %q declares a link with empty name", d.Name)
			}
			if seen[l.Name] {
				return types.NewSchemaError(
					"type %q declares link %q twice", d.Name, l.Name)
			}
			seen[l.Name] = true
			if l.Target != "" {
				if _, ok := s.defs[l.Target]; !ok {
					return types.NewSchemaError(
						"unknown target type %q for link %q.%q", l.Target, d.Name, l.Name)
				}
			}
			if l.Action != "" && !types.ValidDeleteAction(l.Action) {
				return types.NewSchemaError(
					"unknown on target delete action %q for link %q.%q",
					l.Action, d.Name, l.Name)
			}
			if l.Cardinality != "" && !types.ValidCardinality(l.Cardinality) {
				return types.NewSchemaError(
					"unknown cardinality %q for link %q.%q",
					l.Cardinality, d.Name, l.Name)
			}
		}
	}
	return nil
}

// sortTypes orders types topologically, supertypes first, failing on
// inheritance cycles. Roots are visited in sorted-name order so the result
// is deterministic.
func (s *Schema) sortTypes() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(s.defs))

	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return types.NewSchemaError("inheritance cycle involving type %q", name)
		}
		state[name] = visiting
		for _, super := range s.defs[name].Extends {
			if err := visit(super); err != nil {
				return err
			}
		}
		state[name] = done
		s.order = append(s.order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// buildAncestors fills the transitive ancestor sets. Supertypes resolve
// before subtypes, so each type unions its direct supertypes' finished sets.
func (s *Schema) buildAncestors() {
	for _, name := range s.order {
		anc := make(map[string]bool)
		for _, super := range s.defs[name].Extends {
			anc[super] = true
			for a := range s.ancestors[super] {
				anc[a] = true
			}
		}
		s.ancestors[name] = anc
	}
}

// resolveType computes the effective links of one type from its direct
// supertypes' already-resolved state plus its own declarations.
func (s *Schema) resolveType(name string) error {
	d := s.defs[name]
	merged := make(map[string]*EffectiveLink)
	conflicted := make(map[string]bool)

	for _, super := range d.Extends {
		for linkName, inherited := range s.effective[super] {
			cur, ok := merged[linkName]
			if !ok {
				cp := *inherited
				cp.Source = name
				merged[linkName] = &cp
				continue
			}
			// Same link reached through two ancestor paths.
			switch {
			case cur.Explicit && inherited.Explicit && cur.Action != inherited.Action:
				conflicted[linkName] = true
			case inherited.Explicit && !cur.Explicit:
				cur.Action = inherited.Action
				cur.Explicit = true
			}
		}
	}

	for _, l := range d.Links {
		cur, ok := merged[l.Name]
		if !ok {
			el := &EffectiveLink{
				Source:      name,
				Name:        l.Name,
				Target:      l.Target,
				Cardinality: l.Cardinality,
				Action:      l.Action,
				Explicit:    l.Action != "",
			}
			if el.Target == "" {
				return types.NewSchemaError(
					"link %q.%q declares no target type", name, l.Name)
			}
			if el.Cardinality == "" {
				el.Cardinality = types.CardinalitySingle
			}
			if el.Action == "" {
				el.Action = types.DeleteRestrict
			}
			merged[l.Name] = el
			continue
		}

		// Redeclaration of an inherited link. The target may narrow to a
		// subtype; cardinality is fixed by the original declaration and a
		// disagreeing redeclaration fails rather than being ignored.
		if l.Cardinality != "" && l.Cardinality != cur.Cardinality {
			return types.NewSchemaError(
				"link %q.%q redeclares cardinality %q; inherited declaration is %q",
				name, l.Name, l.Cardinality, cur.Cardinality)
		}
		if l.Target != "" && l.Target != cur.Target {
			if !s.IsSubtype(l.Target, cur.Target) {
				return types.NewSchemaError(
					"link %q.%q redeclares target %q which is not a subtype of %q",
					name, l.Name, l.Target, cur.Target)
			}
			cur.Target = l.Target
		}
		if l.Action != "" {
			// An explicit declaration on the type itself wins regardless of
			// ancestor disagreement.
			cur.Action = l.Action
			cur.Explicit = true
			delete(conflicted, l.Name)
		}
	}

	if len(conflicted) > 0 {
		names := make([]string, 0, len(conflicted))
		for linkName := range conflicted {
			names = append(names, linkName)
		}
		sort.Strings(names)
		return types.NewActionConflictError(name, names[0])
	}

	s.effective[name] = merged
	return nil
}
