package builder

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Placeholder selects the bind variable syntax of the generated SQL.
type Placeholder int

const (
	// Dollar renders $1, $2, ... (postgres, pgx).
	Dollar Placeholder = iota
	// Question renders ? (sqlite3, mysql).
	Question
)

// PlaceholderFor returns the placeholder style sqlx uses for driverName.
func PlaceholderFor(driverName string) Placeholder {
	if sqlx.BindType(driverName) == sqlx.DOLLAR {
		return Dollar
	}
	return Question
}

func (p Placeholder) bindType() int {
	if p == Dollar {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

// SQLBuilder helps construct SQL queries dynamically.
// Conditions are written with ? markers; Build rebinds them to the configured placeholder.
type SQLBuilder struct {
	table       string
	columns     []string
	values      []interface{}
	where       []string
	whereArgs   []interface{}
	setCols     []string
	setArgs     []interface{}
	orderBy     []string
	returning   []string
	placeholder Placeholder
	isInsert    bool
	isUpdate    bool
	isDelete    bool
	isSelect    bool
}

// NewSQLBuilder creates a new instance of SQLBuilder using $n placeholders.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{placeholder: Dollar}
}

// WithPlaceholder sets the bind variable syntax.
func (b *SQLBuilder) WithPlaceholder(p Placeholder) *SQLBuilder {
	b.placeholder = p
	return b
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// Update specifies the table to update.
func (b *SQLBuilder) Update(table string) *SQLBuilder {
	b.isUpdate = true
	b.table = table
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.isDelete = true
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Set adds a column assignment to an UPDATE.
func (b *SQLBuilder) Set(col string, val interface{}) *SQLBuilder {
	b.setCols = append(b.setCols, col)
	b.setArgs = append(b.setArgs, val)
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	return b
}

// Where adds a condition, joined to the previous ones with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Returning adds a RETURNING clause to INSERT, UPDATE and DELETE.
func (b *SQLBuilder) Returning(cols ...string) *SQLBuilder {
	b.returning = cols
	return b
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	query, args := b.render()
	return sqlx.Rebind(b.placeholder.bindType(), query), args
}

// BuildSafe is Build with a check that every ? marker has an argument.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	query, args := b.render()
	if n := strings.Count(query, "?"); n != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", n, len(args))
	}
	return sqlx.Rebind(b.placeholder.bindType(), query), args, nil
}

// BuildNamed compiles a query whose conditions use :name parameters, resolving
// them from arg (a map or a struct with db tags). Positional arguments are not
// allowed in a named build.
func (b *SQLBuilder) BuildNamed(arg interface{}) (string, []interface{}, error) {
	query, args := b.render()
	if len(args) > 0 {
		return "", nil, fmt.Errorf("named build does not accept positional arguments (got %d)", len(args))
	}

	named, namedArgs, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, fmt.Errorf("compile named query: %w", err)
	}
	return sqlx.Rebind(b.placeholder.bindType(), named), namedArgs, nil
}

// render assembles the statement with ? markers in argument order.
func (b *SQLBuilder) render() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	switch {
	case b.isSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
	case b.isInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES (")
		sb.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(b.values)), ", "))
		sb.WriteString(")")
		args = append(args, b.values...)
	case b.isUpdate:
		sb.WriteString("UPDATE ")
		sb.WriteString(b.table)
		sb.WriteString(" SET ")
		setClauses := make([]string, len(b.setCols))
		for i, col := range b.setCols {
			setClauses[i] = col + " = ?"
		}
		sb.WriteString(strings.Join(setClauses, ", "))
		args = append(args, b.setArgs...)
	case b.isDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 && !b.isInsert {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
		args = append(args, b.whereArgs...)
	}

	if len(b.orderBy) > 0 && b.isSelect {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if len(b.returning) > 0 && !b.isSelect {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(b.returning, ", "))
	}

	return sb.String(), args
}
