// Inbound-link index: which links can reference each concrete type.
// Implements: prd004-delete-policies R2 (registry consulted by the planner).
package schema

import "sort"

// actionOrder fixes the grouping order of inbound entries. Restrict entries
// come first so the planner surfaces immediate violations before doing any
// other classification work.
var actionOrder = map[string]int{
	"restrict":          0,
	"deferred-restrict": 1,
	"set-empty":         2,
	"delete-source":     3,
}

// buildInbound indexes, per concrete target type, every effective link whose
// declared target subsumes it. Only concrete source types contribute: rows
// exist only for concrete types, and each concrete source type carries its
// own resolved action, which may differ from a sibling's for the same link
// name.
func (s *Schema) buildInbound() {
	for _, sourceType := range s.order {
		if s.defs[sourceType].Abstract {
			continue
		}
		for _, el := range s.effective[sourceType] {
			for _, target := range s.ConcreteDescendants(el.Target) {
				s.inbound[target] = append(s.inbound[target], el)
			}
		}
	}

	for target := range s.inbound {
		entries := s.inbound[target]
		sort.Slice(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.Action != b.Action {
				return actionOrder[string(a.Action)] < actionOrder[string(b.Action)]
			}
			if a.Cardinality != b.Cardinality {
				return a.Cardinality < b.Cardinality
			}
			if a.Source != b.Source {
				return a.Source < b.Source
			}
			return a.Name < b.Name
		})
	}
}
