package query

import (
	"fmt"
	"sort"
	"strings"
)

// Builder assembles a read-only query as text without any schema
// awareness. Field names, the filter clause and ordering terms are taken
// verbatim; validation against a schema is the job of TypedBuilder.
//
// A Builder is not safe for concurrent mutation. To branch a query into
// independent variations, DeepClone it first.
type Builder struct {
	table string

	// sub is set on builders created through Subselect. A sub builder
	// refuses further subselects, keeping nesting to one level.
	sub bool

	// fields maps the case-insensitive key of a selected field path to its
	// originally supplied casing. keys preserves insertion order.
	fields map[string]string
	keys   []string

	condition string
	limit     int
	offset    int
	orderings []Ordering

	sortFields bool

	// subqueries maps relationship names to their child builders. subNames
	// preserves registration order, which is also render order.
	subqueries map[string]*Builder
	subNames   []string
}

// NewBuilder returns a Builder selecting from the given table. Selected
// fields are alphabetically sorted in the output by default.
func NewBuilder(table string) *Builder {
	return &Builder{
		table:      table,
		fields:     map[string]string{},
		subqueries: map[string]*Builder{},
		sortFields: true,
	}
}

// Table returns the name the query selects from.
func (b *Builder) Table() string {
	return b.table
}

// SelectField adds a field path to the selection. The path is deduplicated
// case-insensitively: when the same path was already selected under any
// casing, the call is a no-op and the first casing wins. A blank path
// returns ErrEmptyFieldName.
func (b *Builder) SelectField(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyFieldName
	}
	key := strings.ToLower(path)
	if _, found := b.fields[key]; found {
		return nil
	}
	b.fields[key] = path
	b.keys = append(b.keys, key)
	return nil
}

// SelectFields adds each of the given field paths to the selection with
// SelectField semantics. The first blank path aborts the call; paths added
// before the failure remain selected.
func (b *Builder) SelectFields(paths []string) error {
	for _, p := range paths {
		if err := b.SelectField(p); err != nil {
			return err
		}
	}
	return nil
}

// SelectedFields returns the selected field paths, sorted when sorting is
// enabled, in insertion order otherwise.
func (b *Builder) SelectedFields() []string {
	fields := make([]string, 0, len(b.keys))
	for _, key := range b.keys {
		fields = append(fields, b.fields[key])
	}
	if b.sortFields {
		sort.SliceStable(fields, func(i, j int) bool {
			return fieldLess(fields[i], fields[j])
		})
	}
	return fields
}

// fieldLess orders field paths case-insensitively, folding the path
// separator above letters so that a cross-object path sorts right after
// the scalar fields sharing its prefix: AccountId before Account.Name,
// Account.Name before FirstName.
func fieldLess(a, b string) bool {
	return foldPath(a) < foldPath(b)
}

func foldPath(path string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' {
			return '~'
		}
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, path)
}

// SortFieldsOnOutput controls whether SelectedFields and QueryText sort
// the field list alphabetically (the default) or keep insertion order.
func (b *Builder) SortFieldsOnOutput(sorted bool) {
	b.sortFields = sorted
}

// SetCondition sets the filter clause. The clause is opaque to the
// builder; a blank clause means no filter.
func (b *Builder) SetCondition(clause string) {
	b.condition = clause
}

// Condition returns the raw filter clause.
func (b *Builder) Condition() string {
	return b.condition
}

// WhereClause returns the filter clause prefixed with WHERE, or an empty
// string when no filter is set.
func (b *Builder) WhereClause() string {
	if strings.TrimSpace(b.condition) == "" {
		return ""
	}
	return "WHERE " + b.condition
}

// SetLimit sets the maximum number of rows to return. Zero means no
// limit; no clause is emitted.
func (b *Builder) SetLimit(limit int) {
	b.limit = limit
}

// Limit returns the configured limit, zero when unset.
func (b *Builder) Limit() int {
	return b.limit
}

// SetOffset sets the number of rows to skip. Zero means no offset; no
// clause is emitted.
func (b *Builder) SetOffset(offset int) {
	b.offset = offset
}

// Offset returns the configured offset, zero when unset.
func (b *Builder) Offset() int {
	return b.offset
}

// AddOrdering appends an ordering term. Terms render in insertion order.
func (b *Builder) AddOrdering(o Ordering) {
	b.orderings = append(b.orderings, o)
}

// SetOrdering discards any existing ordering terms and sets the given one
// as the only term.
func (b *Builder) SetOrdering(o Ordering) {
	b.orderings = []Ordering{o}
}

// Orderings returns the ordering terms in insertion order.
func (b *Builder) Orderings() []Ordering {
	return b.orderings
}

// OrderingClause renders all ordering terms as a single ORDER BY clause,
// or an empty string when no term is set. The ORDER BY keyword appears
// exactly once regardless of the number of terms.
func (b *Builder) OrderingClause() string {
	if len(b.orderings) == 0 {
		return ""
	}
	terms := make([]string, 0, len(b.orderings))
	for _, o := range b.orderings {
		terms = append(terms, o.String())
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}

// Subselect returns the child builder for the given relationship name,
// creating and registering it on first use. Repeated calls with the same
// name return the same child, so selections accumulate instead of
// duplicating the subquery. The child inherits the field sorting mode.
//
// A builder that is itself a subquery refuses to nest further and returns
// an InvalidSubqueryRelationshipError.
func (b *Builder) Subselect(relationshipName string) (*Builder, error) {
	if b.sub {
		return nil, &InvalidSubqueryRelationshipError{
			Object:       b.table,
			Relationship: relationshipName,
			Reason:       "subqueries cannot be nested more than one level deep",
		}
	}
	if child, found := b.subqueries[relationshipName]; found {
		return child, nil
	}
	child := NewBuilder(relationshipName)
	child.sub = true
	child.sortFields = b.sortFields
	b.subqueries[relationshipName] = child
	b.subNames = append(b.subNames, relationshipName)
	return child, nil
}

// Subqueries returns the registered child builders keyed by relationship
// name. The map is the builder's own; callers must not mutate it.
func (b *Builder) Subqueries() map[string]*Builder {
	return b.subqueries
}

// QueryText renders the query. The field list defaults to Id when neither
// fields nor subqueries are selected; unset clauses are omitted entirely.
func (b *Builder) QueryText() string {
	parts := b.SelectedFields()
	for _, name := range b.subNames {
		parts = append(parts, "("+b.subqueries[name].QueryText()+")")
	}
	if len(parts) == 0 {
		parts = []string{"Id"}
	}

	var q strings.Builder
	q.WriteString("SELECT ")
	q.WriteString(strings.Join(parts, ", "))
	q.WriteString(" FROM ")
	q.WriteString(b.table)
	if w := b.WhereClause(); w != "" {
		q.WriteString(" ")
		q.WriteString(w)
	}
	if o := b.OrderingClause(); o != "" {
		q.WriteString(" ")
		q.WriteString(o)
	}
	if b.limit > 0 {
		fmt.Fprintf(&q, " LIMIT %d", b.limit)
	}
	if b.offset > 0 {
		fmt.Fprintf(&q, " OFFSET %d", b.offset)
	}
	return q.String()
}

// DeepClone returns a builder with the same state sharing nothing mutable
// with the original: the field map, ordering list and every child builder
// are copied recursively.
func (b *Builder) DeepClone() *Builder {
	clone := &Builder{
		table:      b.table,
		sub:        b.sub,
		fields:     make(map[string]string, len(b.fields)),
		keys:       append([]string(nil), b.keys...),
		condition:  b.condition,
		limit:      b.limit,
		offset:     b.offset,
		orderings:  append([]Ordering(nil), b.orderings...),
		sortFields: b.sortFields,
		subqueries: make(map[string]*Builder, len(b.subqueries)),
		subNames:   append([]string(nil), b.subNames...),
	}
	for key, path := range b.fields {
		clone.fields[key] = path
	}
	for name, child := range b.subqueries {
		clone.subqueries[name] = child.DeepClone()
	}
	return clone
}

// Equal reports whether two builders render the same query: same table,
// same number of selected fields and identical query text. Rendering is
// deterministic, which makes the text comparison a sufficient structural
// check.
func (b *Builder) Equal(other *Builder) bool {
	if other == nil {
		return false
	}
	return b.table == other.table &&
		len(b.fields) == len(other.fields) &&
		b.QueryText() == other.QueryText()
}
