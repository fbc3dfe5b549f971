package query

import (
	"strings"

	"github.com/rs/query-layer/schema"
)

// Direction is the direction of an ordering term.
type Direction int

const (
	// Ascending sorts smallest first.
	Ascending Direction = iota

	// Descending sorts largest first.
	Descending
)

// String returns the textual form of the direction.
func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Ordering is a single ORDER BY term: a field, a direction and a nulls
// placement. The field is held either as a raw path string or as a
// resolved schema field handle; Field reduces both to the field name.
// An Ordering is immutable after construction.
type Ordering struct {
	path      string
	field     *schema.Field
	direction Direction
	nullsLast bool
}

// NewOrdering returns an ordering term on a raw field path. A blank path
// returns ErrEmptyFieldName. Nulls sort first unless nullsLast is set.
func NewOrdering(path string, direction Direction, nullsLast bool) (Ordering, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Ordering{}, ErrEmptyFieldName
	}
	return Ordering{path: path, direction: direction, nullsLast: nullsLast}, nil
}

// NewFieldOrdering returns an ordering term on a resolved field handle. A
// nil handle returns an InvalidFieldError.
func NewFieldOrdering(field *schema.Field, direction Direction, nullsLast bool) (Ordering, error) {
	if field == nil {
		return Ordering{}, &InvalidFieldError{}
	}
	return Ordering{field: field, direction: direction, nullsLast: nullsLast}, nil
}

// NewCheckedOrdering returns an ordering term on the named field of the
// named object type, validating both against the registry. An unknown
// type returns an InvalidTableError, an unknown field an
// InvalidFieldError.
func NewCheckedOrdering(registry schema.Registry, object, field string, direction Direction, nullsLast bool) (Ordering, error) {
	t := registry.Object(object)
	if t == nil {
		return Ordering{}, &InvalidTableError{Table: object}
	}
	f := t.Field(field)
	if f == nil {
		return Ordering{}, &InvalidFieldError{Object: t.Name, Field: field}
	}
	return Ordering{field: f, direction: direction, nullsLast: nullsLast}, nil
}

// Field returns the field name of the term, regardless of whether the
// term was built from a raw path or a resolved handle.
func (o Ordering) Field() string {
	if o.field != nil {
		return o.field.Name
	}
	return o.path
}

// Direction returns the direction of the term.
func (o Ordering) Direction() Direction {
	return o.direction
}

// NullsLast reports whether null sort keys are placed after non-null
// values. The default placement is nulls first.
func (o Ordering) NullsLast() bool {
	return o.nullsLast
}

// String renders the term as "<field> <ASC|DESC> <NULLS FIRST|NULLS LAST>".
func (o Ordering) String() string {
	nulls := "NULLS FIRST"
	if o.nullsLast {
		nulls = "NULLS LAST"
	}
	return o.Field() + " " + o.direction.String() + " " + nulls
}

// Clause renders the term as a standalone ORDER BY clause. When several
// terms belong to one query, Builder.OrderingClause renders them together
// under a single ORDER BY keyword.
func (o Ordering) Clause() string {
	return "ORDER BY " + o.String()
}
