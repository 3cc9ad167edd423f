// Error types for schema compilation and delete execution.
// Implements: prd004-delete-policies R6 (error surfaces, verbatim messages);
//
//	prd003-schema-model R5 (resolution failure).
package types

import "fmt"

// SchemaError is raised during schema compilation and never at runtime.
// The zero Conflict fields indicate a general validation failure; a set
// Type/Link pair indicates an unresolved inherited-action conflict.
type SchemaError struct {
	Type string // type whose link could not be resolved, if any
	Link string // link name, if any
	Msg  string // message for general validation failures
}

// Error returns the schema error message. The inherited-action conflict
// message format is fixed; callers match on it.
func (e *SchemaError) Error() string {
	if e.Type != "" && e.Link != "" {
		return fmt.Sprintf(
			"cannot implicitly resolve the `on target delete` action for '%s.%s'",
			e.Type, e.Link)
	}
	return e.Msg
}

// NewActionConflictError builds the SchemaError for a type that inherits
// differing explicit on-target-delete actions without overriding them.
func NewActionConflictError(typeName, linkName string) *SchemaError {
	return &SchemaError{Type: typeName, Link: linkName}
}

// NewSchemaError builds a general schema validation error.
func NewSchemaError(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// ConstraintViolationError is raised when a restrict policy forbids a
// deletion: immediately for DeleteRestrict, at commit for
// DeleteDeferredRestrict. Recoverable by the caller; no partial mutation is
// ever persisted alongside it.
type ConstraintViolationError struct {
	TargetType string // the link's declared target type
	TargetID   string // id of the object whose deletion was prohibited
	Link       string // link whose policy prohibited the deletion
}

// Error returns the violation message. The format is fixed; callers match
// on it.
func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("deletion of %s (%s) is prohibited by link %s",
		e.TargetType, e.TargetID, e.Link)
}
