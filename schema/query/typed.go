package query

import (
	"strings"

	"github.com/rs/query-layer/schema"
)

// TypedBuilder is a schema-aware query builder. Every field, ordering and
// subquery is validated against a schema.Registry before being forwarded
// to an owned untyped Builder, which performs the final text assembly.
// Field-level security checks are performed through the AccessChecker
// when enforcement is enabled.
//
// Like Builder, a TypedBuilder and its subquery children form a single
// unit of mutable state; DeepClone before branching.
type TypedBuilder struct {
	registry schema.Registry
	access   schema.AccessChecker

	rootType *schema.ObjectType

	// parentRelationship is set when this builder was created as a
	// subquery; rootType is then the relationship's child type while the
	// owned builder renders FROM with the relationship name.
	parentRelationship *schema.Relationship

	enforceFLS bool

	builder *Builder

	// subqueries mirrors builder.subqueries with the typed wrappers, keyed
	// by the canonical relationship name. subNames preserves registration
	// order.
	subqueries map[string]*TypedBuilder
	subNames   []string
}

// New returns a TypedBuilder selecting from the named object type. The
// registry is consulted for every resolution; the access checker is used
// for accessibility assertions and, when enforcement is enabled, for
// field-level security. A nil access checker allows everything. An
// unknown object name returns an InvalidTableError.
func New(registry schema.Registry, access schema.AccessChecker, object string) (*TypedBuilder, error) {
	t := registry.Object(object)
	if t == nil {
		return nil, &InvalidTableError{Table: object}
	}
	if access == nil {
		access = schema.AllowAll{}
	}
	return &TypedBuilder{
		registry:   registry,
		access:     access,
		rootType:   t,
		builder:    NewBuilder(t.Name),
		subqueries: map[string]*TypedBuilder{},
	}, nil
}

// ObjectType returns the schema type the builder selects from.
func (b *TypedBuilder) ObjectType() *schema.ObjectType {
	return b.rootType
}

// Builder returns the owned untyped builder. The typed layer keeps it in
// sync at mutation time, so its QueryText always reflects the current
// typed state.
func (b *TypedBuilder) Builder() *Builder {
	return b.builder
}

// SetEnforceFieldLevelSecurity toggles field-level security enforcement.
// The flag only affects subsequent field selections; fields already
// selected are not re-checked.
func (b *TypedBuilder) SetEnforceFieldLevelSecurity(enforce bool) {
	b.enforceFLS = enforce
}

// EnforceFieldLevelSecurity reports whether field-level security is
// enforced on field selections.
func (b *TypedBuilder) EnforceFieldLevelSecurity() bool {
	return b.enforceFLS
}

// AssertAccessible checks object-level read access on the root type and
// propagates any permission error.
func (b *TypedBuilder) AssertAccessible() error {
	return b.access.CheckObjectReadable(b.rootType.Name)
}

// SelectField adds a resolved field handle to the selection. A nil handle
// returns an InvalidFieldError. When field-level security enforcement is
// on, the access checker is consulted first and its error propagated.
func (b *TypedBuilder) SelectField(field *schema.Field) error {
	if field == nil {
		return &InvalidFieldError{Object: b.rootType.Name}
	}
	if b.enforceFLS {
		if err := b.access.CheckFieldReadable(b.rootType.Name, field.Name); err != nil {
			return err
		}
	}
	return b.builder.SelectField(field.Name)
}

// SelectFields adds each of the given field handles to the selection. The
// first nil handle or denied field aborts the call; handles added before
// the failure remain selected.
func (b *TypedBuilder) SelectFields(fields []*schema.Field) error {
	for _, f := range fields {
		if err := b.SelectField(f); err != nil {
			return err
		}
	}
	return nil
}

// SelectPath resolves a possibly dotted field path against the root type
// and adds the canonical path to the selection. Polymorphic references
// traverse to their first declared target type; use SelectPathAs to pick
// another.
func (b *TypedBuilder) SelectPath(path string) error {
	return b.SelectPathAs(path, "")
}

// SelectPathAs is SelectPath with a disambiguation type for polymorphic
// references: each polymorphic segment traverses to the target type
// matching targetType, falling back to the first declared target when
// none matches.
func (b *TypedBuilder) SelectPathAs(path, targetType string) error {
	resolved, err := b.resolvePath(path, targetType)
	if err != nil {
		return err
	}
	return b.builder.SelectField(resolved)
}

// SelectPaths resolves and selects each of the given field paths. The
// first invalid path aborts the call; paths resolved before the failure
// remain selected.
func (b *TypedBuilder) SelectPaths(paths []string) error {
	for _, p := range paths {
		if err := b.SelectPath(p); err != nil {
			return err
		}
	}
	return nil
}

// SelectFieldSet selects every member path of the given field set. The
// set must be owned by the root type and, when allowCrossObject is false,
// must not contain dotted members; either violation returns an
// InvalidFieldSetError. Members resolve with SelectPath semantics.
func (b *TypedBuilder) SelectFieldSet(fs *schema.FieldSet, allowCrossObject bool) error {
	if fs == nil {
		return &InvalidFieldSetError{Reason: "nil field set"}
	}
	if !strings.EqualFold(fs.ObjectType, b.rootType.Name) {
		return &InvalidFieldSetError{
			FieldSet: fs.Name,
			Reason:   "not a field set of " + b.rootType.Name,
		}
	}
	for _, path := range fs.Paths {
		if !allowCrossObject && strings.Contains(path, ".") {
			return &InvalidFieldSetError{
				FieldSet: fs.Name,
				Reason:   "cross-object field not allowed: " + path,
			}
		}
		if err := b.SelectPath(path); err != nil {
			return err
		}
	}
	return nil
}

// SetCondition sets the opaque filter clause on the owned builder.
func (b *TypedBuilder) SetCondition(clause string) {
	b.builder.SetCondition(clause)
}

// Condition returns the raw filter clause.
func (b *TypedBuilder) Condition() string {
	return b.builder.Condition()
}

// SetLimit sets the row limit, zero meaning no limit.
func (b *TypedBuilder) SetLimit(limit int) {
	b.builder.SetLimit(limit)
}

// SetOffset sets the row offset, zero meaning no offset.
func (b *TypedBuilder) SetOffset(offset int) {
	b.builder.SetOffset(offset)
}

// SortFieldsOnOutput controls field list sorting on the owned builder and
// is inherited by subqueries created afterwards.
func (b *TypedBuilder) SortFieldsOnOutput(sorted bool) {
	b.builder.SortFieldsOnOutput(sorted)
}

// SelectedFields returns the selected field paths from the owned builder.
func (b *TypedBuilder) SelectedFields() []string {
	return b.builder.SelectedFields()
}

// OrderBy resolves the given field path and appends an ordering term on
// it. Field-level security applies to the traversed segments when
// enforcement is on.
func (b *TypedBuilder) OrderBy(path string, direction Direction, nullsLast bool) error {
	resolved, err := b.resolvePath(path, "")
	if err != nil {
		return err
	}
	o, err := NewOrdering(resolved, direction, nullsLast)
	if err != nil {
		return err
	}
	b.builder.AddOrdering(o)
	return nil
}

// OrderByField appends an ordering term on a resolved field handle.
func (b *TypedBuilder) OrderByField(field *schema.Field, direction Direction, nullsLast bool) error {
	o, err := NewFieldOrdering(field, direction, nullsLast)
	if err != nil {
		return err
	}
	b.builder.AddOrdering(o)
	return nil
}

// SetOrderBy discards existing ordering terms and sets a single term on
// the given field path.
func (b *TypedBuilder) SetOrderBy(path string, direction Direction, nullsLast bool) error {
	resolved, err := b.resolvePath(path, "")
	if err != nil {
		return err
	}
	o, err := NewOrdering(resolved, direction, nullsLast)
	if err != nil {
		return err
	}
	b.builder.SetOrdering(o)
	return nil
}

// SetOrderByField discards existing ordering terms and sets a single term
// on the given field handle.
func (b *TypedBuilder) SetOrderByField(field *schema.Field, direction Direction, nullsLast bool) error {
	o, err := NewFieldOrdering(field, direction, nullsLast)
	if err != nil {
		return err
	}
	b.builder.SetOrdering(o)
	return nil
}

// Orderings returns the ordering terms of the owned builder.
func (b *TypedBuilder) Orderings() []Ordering {
	return b.builder.Orderings()
}

// QueryText renders the query through the owned builder. Typed and
// untyped state are synchronized at mutation time, so no flush is needed.
func (b *TypedBuilder) QueryText() string {
	return b.builder.QueryText()
}

// DeepClone returns a typed builder graph sharing no mutable state with
// the original. The owned untyped builder is cloned recursively and each
// typed subquery wrapper is re-bound to its cloned untyped child.
// Immutable schema metadata (types, relationships) is shared.
func (b *TypedBuilder) DeepClone() *TypedBuilder {
	clone := &TypedBuilder{
		registry:           b.registry,
		access:             b.access,
		rootType:           b.rootType,
		parentRelationship: b.parentRelationship,
		enforceFLS:         b.enforceFLS,
		builder:            b.builder.DeepClone(),
		subqueries:         make(map[string]*TypedBuilder, len(b.subqueries)),
		subNames:           append([]string(nil), b.subNames...),
	}
	for name, sub := range b.subqueries {
		clone.subqueries[name] = &TypedBuilder{
			registry:           sub.registry,
			access:             sub.access,
			rootType:           sub.rootType,
			parentRelationship: sub.parentRelationship,
			enforceFLS:         sub.enforceFLS,
			builder:            clone.builder.subqueries[name],
			subqueries:         map[string]*TypedBuilder{},
		}
	}
	return clone
}
