/*
Package schema defines the object metadata consumed by the query package.

An ObjectType describes a single queryable entity: its fields, its child
relationships and its named field sets. Types are grouped in a Registry,
which is the only lookup interface the query package depends on. The
metadata is read-only once constructed; the query package never mutates
it and may freely share it between builders.

This package is part of the query-layer project.
*/
package schema

import "strings"

// FieldKind discriminates scalar fields from reference (lookup) fields.
type FieldKind int

const (
	// Scalar is a plain value field.
	Scalar FieldKind = iota

	// Reference is a field holding the ID of a record of another type. A
	// reference field carries a relationship name used when traversing to
	// the referenced record in a dotted field path.
	Reference
)

// Fields defines a map of canonical name -> field pairs.
type Fields map[string]Field

// Field describes a single field of an ObjectType.
type Field struct {
	// Name is the canonical API name of the field, e.g. "AccountId". The
	// casing stored here is the casing emitted in query text.
	Name string

	// Kind tells whether the field is a scalar or a reference.
	Kind FieldKind

	// RelationshipName is the name used to traverse this field in a dotted
	// path, e.g. "Account" for the "AccountId" reference. Only meaningful
	// when Kind is Reference.
	RelationshipName string

	// ReferenceTo lists the types this field may point to, in declaration
	// order. A polymorphic reference has more than one entry; the first is
	// the default target when no disambiguation is requested. Only
	// meaningful when Kind is Reference.
	ReferenceTo []string
}

// Relationship describes a child relationship of an ObjectType: the
// relationship name used in subqueries and the child type it leads to.
type Relationship struct {
	Name      string
	ChildType string
}

// FieldSet is a named list of field paths declared on an object type.
// Members may be dotted cross-object paths.
type FieldSet struct {
	Name       string
	ObjectType string
	Paths      []string
}

// ObjectType describes one queryable entity type.
type ObjectType struct {
	// Name is the canonical type name, e.g. "Contact".
	Name string

	// Fields maps canonical field names to their definitions. Lookups
	// through Field are case-insensitive; the map key casing is only used
	// for literal construction convenience.
	Fields Fields

	// ChildRelationships lists the subquery-able relationships of the type.
	ChildRelationships []Relationship

	// FieldSets lists the named field sets declared on the type.
	FieldSets []FieldSet
}

// Field returns the definition of the named field, or nil if the type has
// no such field. The lookup is case-insensitive.
func (t *ObjectType) Field(name string) *Field {
	if t == nil {
		return nil
	}
	if f, found := t.Fields[name]; found {
		return &f
	}
	for key, f := range t.Fields {
		if strings.EqualFold(key, name) {
			f := f
			return &f
		}
	}
	return nil
}

// ReferenceField returns the reference field traversed by the given
// relationship name, or nil if no reference field of the type carries it.
// The lookup is case-insensitive. A dotted path segment names a reference
// by its relationship name, not by its field name; this is the lookup a
// path resolver falls back to when the direct field lookup misses.
func (t *ObjectType) ReferenceField(relationshipName string) *Field {
	if t == nil || relationshipName == "" {
		return nil
	}
	for _, f := range t.Fields {
		if f.Kind != Reference {
			continue
		}
		if strings.EqualFold(f.RelationshipName, relationshipName) {
			f := f
			return &f
		}
	}
	return nil
}

// Relationship returns the child relationship with the given name, or nil
// if none matches. The match is case-insensitive and relationships with an
// empty name are never matched.
func (t *ObjectType) Relationship(name string) *Relationship {
	if t == nil || name == "" {
		return nil
	}
	for i := range t.ChildRelationships {
		r := &t.ChildRelationships[i]
		if r.Name == "" {
			continue
		}
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	return nil
}

// ChildRelationship returns the child relationship leading to the given
// child type, or nil if none matches. The match is case-insensitive and
// relationships with an empty name are never matched.
func (t *ObjectType) ChildRelationship(childType string) *Relationship {
	if t == nil || childType == "" {
		return nil
	}
	for i := range t.ChildRelationships {
		r := &t.ChildRelationships[i]
		if r.Name == "" {
			continue
		}
		if strings.EqualFold(r.ChildType, childType) {
			return r
		}
	}
	return nil
}

// FieldSet returns the named field set declared on the type, or nil if
// none matches. The match is case-insensitive.
func (t *ObjectType) FieldSet(name string) *FieldSet {
	if t == nil {
		return nil
	}
	for i := range t.FieldSets {
		fs := &t.FieldSets[i]
		if strings.EqualFold(fs.Name, name) {
			return fs
		}
	}
	return nil
}

// Registry is a read-only lookup of object types by name. The query
// package resolves every type it encounters through this interface.
type Registry interface {
	// Object returns the type with the given name, or nil when the name is
	// unknown. The lookup must be case-insensitive.
	Object(name string) *ObjectType
}

// MapRegistry is a Registry backed by a map keyed by lowercased type name.
// Use NewRegistry to build one from ObjectType values.
type MapRegistry map[string]*ObjectType

// NewRegistry builds a MapRegistry from the given types.
func NewRegistry(types ...*ObjectType) MapRegistry {
	r := make(MapRegistry, len(types))
	for _, t := range types {
		r[strings.ToLower(t.Name)] = t
	}
	return r
}

// Object implements the Registry interface.
func (r MapRegistry) Object(name string) *ObjectType {
	return r[strings.ToLower(name)]
}
