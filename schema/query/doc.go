/*
Package query builds read-only queries against types described by
github.com/rs/query-layer/schema and renders them to their canonical
textual form.

Two builders compose:

  - Builder works on plain strings: field paths, an opaque filter clause,
    limit/offset, ordering terms and one level of named subqueries. It
    deduplicates fields case-insensitively and assembles the final text.
  - TypedBuilder validates everything against a schema.Registry first:
    fields by handle or dotted path (traversing reference fields across
    types, with polymorphic disambiguation), orderings, field sets and
    child-relationship subqueries. It owns a Builder and forwards only
    validated names to it.

The rendered text has the shape

	SELECT <fields>, (SELECT ... FROM <rel>), ... FROM <Table> [WHERE ...] [ORDER BY ...] [LIMIT n] [OFFSET n]

with the field list defaulting to Id when nothing is selected and unset
clauses omitted entirely.

This package is part of the query-layer project.
*/
package query
