package query

import (
	"errors"
	"fmt"
)

// ErrEmptyFieldName is returned when a blank field name or path is given
// to a select or ordering operation.
var ErrEmptyFieldName = errors.New("empty field name")

// InvalidTableError is returned when a builder is constructed for a type
// the registry does not know, or when a dotted path traverses a reference
// whose target type is missing from the registry.
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("%s: unknown object type", e.Table)
}

// InvalidFieldError is returned when a field name does not exist on the
// object type it is resolved against, or when a nil field handle is given.
type InvalidFieldError struct {
	Object string
	Field  string
}

func (e *InvalidFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: nil field", e.Object)
	}
	return fmt.Sprintf("%s: unknown field: %s", e.Object, e.Field)
}

// NonReferenceFieldError is returned when a non-terminal segment of a
// dotted field path resolves to a field that is not a reference.
type NonReferenceFieldError struct {
	Object string
	Field  string
}

func (e *NonReferenceFieldError) Error() string {
	return fmt.Sprintf("%s: not a reference field: %s", e.Object, e.Field)
}

// InvalidFieldSetError is returned when a field set is selected on a
// builder whose root type does not own it, or when a cross-object member
// is encountered while cross-object members are disallowed.
type InvalidFieldSetError struct {
	FieldSet string
	Reason   string
}

func (e *InvalidFieldSetError) Error() string {
	return fmt.Sprintf("%s: invalid field set: %s", e.FieldSet, e.Reason)
}

// InvalidSubqueryRelationshipError is returned when a subquery is
// requested for an unknown relationship or child type, or when a subquery
// is requested on a builder that is itself already a subquery.
type InvalidSubqueryRelationshipError struct {
	Object       string
	Relationship string
	Reason       string
}

func (e *InvalidSubqueryRelationshipError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: invalid subquery: %s", e.Object, e.Reason)
	}
	return fmt.Sprintf("%s: unknown child relationship: %s", e.Object, e.Relationship)
}
