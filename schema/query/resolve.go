package query

import (
	"strings"

	"github.com/rs/query-layer/schema"
)

// resolvePath resolves a possibly dotted field path against the root type
// and returns its canonical form: relationship names for the traversed
// reference segments, the canonical field name for the terminal segment.
//
// Each non-terminal segment must resolve to a reference field of the
// current type; the walk then advances to the reference's target type. A
// polymorphic reference picks the target matching targetType when one is
// given, the first declared target otherwise. When field-level security
// enforcement is on, every resolved segment is checked, not only the
// terminal one.
func (b *TypedBuilder) resolvePath(path, targetType string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyFieldName
	}

	segments := strings.Split(path, ".")
	cur := b.rootType
	resolved := make([]string, 0, len(segments))

	for i, segment := range segments {
		f := cur.Field(segment)
		if f == nil && i < len(segments)-1 {
			// A non-terminal segment may name a reference by its
			// relationship name: Account.Name traverses the AccountId field.
			f = cur.ReferenceField(segment)
		}
		if f == nil {
			return "", &InvalidFieldError{Object: cur.Name, Field: segment}
		}
		if b.enforceFLS {
			if err := b.access.CheckFieldReadable(cur.Name, f.Name); err != nil {
				return "", err
			}
		}

		if i == len(segments)-1 {
			resolved = append(resolved, f.Name)
			break
		}

		if f.Kind != schema.Reference {
			return "", &NonReferenceFieldError{Object: cur.Name, Field: f.Name}
		}
		next := b.registry.Object(referenceTarget(f, targetType))
		if next == nil {
			return "", &InvalidTableError{Table: referenceTarget(f, targetType)}
		}
		resolved = append(resolved, relationshipSegment(f))
		cur = next
	}

	return strings.Join(resolved, "."), nil
}

// referenceTarget picks the target type of a reference field: the entry
// matching targetType when one is given and matches, the first declared
// entry otherwise.
func referenceTarget(f *schema.Field, targetType string) string {
	if targetType != "" {
		for _, t := range f.ReferenceTo {
			if strings.EqualFold(t, targetType) {
				return t
			}
		}
	}
	if len(f.ReferenceTo) > 0 {
		return f.ReferenceTo[0]
	}
	return ""
}

// relationshipSegment returns the name a reference field contributes to a
// resolved path. Schemas normally declare it; the field name is the
// fallback for schemas that omit it.
func relationshipSegment(f *schema.Field) string {
	if f.RelationshipName != "" {
		return f.RelationshipName
	}
	return f.Name
}
