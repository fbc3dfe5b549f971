package query

import (
	"github.com/rs/query-layer/schema"
)

// Subselect returns the typed child builder for the named child
// relationship, creating and registering it on first use. Repeated calls
// with the same relationship accumulate onto the same child. The match on
// the relationship name is case-insensitive.
//
// A builder that is itself a subquery refuses to nest further and returns
// an InvalidSubqueryRelationshipError, as does an unknown relationship
// name. When assertAccessible is set, object-level read access on the
// child type is checked before the child is registered; a denial leaves
// the builder unchanged.
func (b *TypedBuilder) Subselect(relationshipName string, assertAccessible bool) (*TypedBuilder, error) {
	rel := b.rootType.Relationship(relationshipName)
	if rel == nil {
		return nil, &InvalidSubqueryRelationshipError{
			Object:       b.rootType.Name,
			Relationship: relationshipName,
		}
	}
	return b.SubselectRelationship(rel, assertAccessible)
}

// SubselectChildType returns the typed child builder for the unique child
// relationship leading to the given child type, with Subselect semantics.
// An empty child type or a type no relationship leads to returns an
// InvalidSubqueryRelationshipError.
func (b *TypedBuilder) SubselectChildType(childType string, assertAccessible bool) (*TypedBuilder, error) {
	if childType == "" {
		return nil, &InvalidSubqueryRelationshipError{
			Object: b.rootType.Name,
			Reason: "empty child type",
		}
	}
	rel := b.rootType.ChildRelationship(childType)
	if rel == nil {
		return nil, &InvalidSubqueryRelationshipError{
			Object:       b.rootType.Name,
			Relationship: childType,
		}
	}
	return b.SubselectRelationship(rel, assertAccessible)
}

// SubselectRelationship returns the typed child builder for an already
// resolved relationship, with Subselect semantics minus the name lookup.
func (b *TypedBuilder) SubselectRelationship(rel *schema.Relationship, assertAccessible bool) (*TypedBuilder, error) {
	if rel == nil {
		return nil, &InvalidSubqueryRelationshipError{
			Object: b.rootType.Name,
			Reason: "nil relationship",
		}
	}
	if b.parentRelationship != nil {
		return nil, &InvalidSubqueryRelationshipError{
			Object:       b.rootType.Name,
			Relationship: rel.Name,
			Reason:       "subqueries cannot be nested more than one level deep",
		}
	}
	if child, found := b.subqueries[rel.Name]; found {
		return child, nil
	}

	childType := b.registry.Object(rel.ChildType)
	if childType == nil {
		return nil, &InvalidTableError{Table: rel.ChildType}
	}
	if assertAccessible {
		if err := b.access.CheckObjectReadable(childType.Name); err != nil {
			return nil, err
		}
	}

	// Register in the untyped builder first; the typed wrapper is bound to
	// the untyped child so both maps stay in lockstep.
	untypedChild, err := b.builder.Subselect(rel.Name)
	if err != nil {
		return nil, err
	}
	child := &TypedBuilder{
		registry:           b.registry,
		access:             b.access,
		rootType:           childType,
		parentRelationship: rel,
		builder:            untypedChild,
		subqueries:         map[string]*TypedBuilder{},
	}
	b.subqueries[rel.Name] = child
	b.subNames = append(b.subNames, rel.Name)
	return child, nil
}

// TypedSubqueries returns the registered typed child builders keyed by
// canonical relationship name. The map is the builder's own; callers must
// not mutate it.
func (b *TypedBuilder) TypedSubqueries() map[string]*TypedBuilder {
	return b.subqueries
}
