// Package querybuilder composes a base statement and optional predicates into
// a paginated data statement and the count statement that matches it.
//
// Both statements are rendered from the same condition list and argument
// slice, so a page of data and its total can never disagree about the filter.
package querybuilder

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Statement is a parameterized SQL statement ready for execution.
type Statement struct {
	SQL  string
	Args []any
}

// Builder accumulates AND-ed predicates over a single FROM clause.
type Builder struct {
	columns    string
	from       string
	conditions []string
	args       []any
	orderBy    []string
}

// New starts a builder. base is the always-present predicate; an empty base
// means every row is in scope.
func New(columns, from, base string) *Builder {
	if strings.TrimSpace(base) == "" {
		base = "1=1"
	}
	return &Builder{
		columns:    columns,
		from:       from,
		conditions: []string{base},
	}
}

// bind appends a value and returns its positional placeholder.
func (b *Builder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Search adds a case-insensitive substring match OR-ed across columns.
// A blank term adds nothing.
func (b *Builder) Search(term string, columns ...string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return b
	}

	ph := b.bind("%" + escapeLike(term) + "%")
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE %s", col, ph))
	}
	b.conditions = append(b.conditions, "("+strings.Join(parts, " OR ")+")")
	return b
}

// Equals adds an exact-match predicate. An empty value adds nothing.
func (b *Builder) Equals(column, value string) *Builder {
	if value == "" {
		return b
	}
	b.conditions = append(b.conditions, fmt.Sprintf("%s = %s", column, b.bind(value)))
	return b
}

// EqualsID adds an exact match on an integer key. nil adds nothing.
func (b *Builder) EqualsID(column string, id *int64) *Builder {
	if id == nil {
		return b
	}
	b.conditions = append(b.conditions, fmt.Sprintf("%s = %s", column, b.bind(*id)))
	return b
}

// In matches any of values. One value degrades to Equals; several are bound
// as a single array parameter.
func (b *Builder) In(column string, values []string) *Builder {
	switch len(values) {
	case 0:
		return b
	case 1:
		return b.Equals(column, values[0])
	}
	b.conditions = append(b.conditions, fmt.Sprintf("%s = ANY(%s)", column, b.bind(pq.Array(values))))
	return b
}

// DateRange bounds column inclusively at day granularity. With a zone the
// calendar day is taken in that zone, otherwise in the session's.
func (b *Builder) DateRange(column string, r DateRange) *Builder {
	if r.From == "" && r.To == "" {
		return b
	}

	day := fmt.Sprintf("DATE(%s)", column)
	if r.Zone != "" {
		day = fmt.Sprintf("DATE(%s AT TIME ZONE %s)", column, b.bind(r.Zone))
	}
	if r.From != "" {
		b.conditions = append(b.conditions, fmt.Sprintf("%s >= %s::date", day, b.bind(r.From)))
	}
	if r.To != "" {
		b.conditions = append(b.conditions, fmt.Sprintf("%s <= %s::date", day, b.bind(r.To)))
	}
	return b
}

// OrderBy sets the fixed sort applied to data statements.
func (b *Builder) OrderBy(clauses ...string) *Builder {
	b.orderBy = clauses
	return b
}

func (b *Builder) where() string {
	return strings.Join(b.conditions, " AND ")
}

func (b *Builder) selectSQL() string {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s", b.columns, b.from, b.where())
	if len(b.orderBy) > 0 {
		q += " ORDER BY " + strings.Join(b.orderBy, ", ")
	}
	return q
}

// Count renders the unbounded count statement for the current predicates.
func (b *Builder) Count() Statement {
	return Statement{
		SQL:  fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", b.from, b.where()),
		Args: append([]any(nil), b.args...),
	}
}

// Build renders the paginated data statement and its matching count statement.
func (b *Builder) Build(p Page) (data Statement, count Statement) {
	n := len(b.args)
	args := make([]any, 0, n+2)
	args = append(args, b.args...)
	args = append(args, p.Limit, p.Offset)

	data = Statement{
		SQL:  fmt.Sprintf("%s LIMIT $%d OFFSET $%d", b.selectSQL(), n+1, n+2),
		Args: args,
	}
	return data, b.Count()
}

// BuildAll renders the data statement without pagination, for exports.
func (b *Builder) BuildAll() Statement {
	return Statement{
		SQL:  b.selectSQL(),
		Args: append([]any(nil), b.args...),
	}
}

// escapeLike neutralises LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
