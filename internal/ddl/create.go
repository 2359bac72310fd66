// Package ddl defines a small, backend-agnostic model for SQL DDL and renders
// CREATE TABLE, DELETE and INSERT statements from it through a Dialect.
//
// Backends (internal/storage/postgres, mssql, mysql, sqlite) each declare a
// Dialect with their identifier quoting, type mapping and existence guard.
// Generic renders the model without quoting, which is handy in tests and
// logs.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures the differences between SQL backends that matter for
// the destination schema.
type Dialect struct {
	Name string

	// Ident quotes one identifier part. Nil leaves identifiers as they are.
	Ident func(string) string

	// Types maps portable column types to SQL types.
	Types map[ColumnType]string

	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool

	// Guard wraps the CREATE statement for dialects without IF NOT EXISTS.
	// It receives the unquoted FQN and the statement.
	Guard func(fqn, stmt string) string

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	// Nil means "?".
	Placeholder func(n int) string
}

// Generic is an unquoted dialect with ANSI-ish types.
var Generic = Dialect{
	Name: "generic",
	Types: map[ColumnType]string{
		TypeBigInt:    "BIGINT",
		TypeInt:       "INT",
		TypeBool:      "BOOLEAN",
		TypeShortText: "VARCHAR(512)",
		TypeLongText:  "TEXT",
		TypeTimestamp: "TIMESTAMP",
	},
}

// QuoteIdent quotes a single identifier.
func (d Dialect) QuoteIdent(id string) string {
	if d.Ident == nil {
		return id
	}
	return d.Ident(id)
}

// QuoteFQN quotes a possibly schema-qualified name part by part, so
// "public.site_galleries" becomes "public"."site_galleries" for Postgres.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(strings.TrimSpace(fqn), ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// QuoteColumns quotes every column name.
func (d Dialect) QuoteColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.QuoteIdent(c)
	}
	return out
}

func (d Dialect) placeholder(n int) string {
	if d.Placeholder == nil {
		return "?"
	}
	return d.Placeholder(n)
}

func (d Dialect) sqlType(c ColumnDef) (string, error) {
	if typ := strings.TrimSpace(c.SQLType); typ != "" {
		return typ, nil
	}
	typ, ok := d.Types[c.Type]
	if !ok || typ == "" {
		return "", fmt.Errorf("ddl: column %s: dialect %s has no type for %s", c.Name, d.Name, c.Type)
	}
	return typ, nil
}

// CreateTable renders a CREATE TABLE statement from a TableDef.
//
// A column is rendered as
//
//	<Name> <Type> [NOT NULL] [DEFAULT <Default>]
//
// and primary key columns are collected into a trailing PRIMARY KEY clause.
func (d Dialect) CreateTable(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		c.Name = name
		typ, err := d.sqlType(c)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	head := "CREATE TABLE "
	if d.IfNotExists {
		head = "CREATE TABLE IF NOT EXISTS "
	}
	stmt := fmt.Sprintf("%s%s (\n  %s\n);", head, d.QuoteFQN(fqn), strings.Join(cols, ",\n  "))
	if d.Guard != nil {
		stmt = d.Guard(fqn, stmt)
	}
	return stmt, nil
}

// DeleteAll renders a statement that empties the table.
func (d Dialect) DeleteAll(fqn string) string {
	return "DELETE FROM " + d.QuoteFQN(fqn)
}

// Insert renders a multi-row INSERT with one bind marker per value.
func (d Dialect) Insert(fqn string, cols []string, rows int) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("ddl: insert into %s: columns must not be empty", fqn)
	}
	if rows <= 0 {
		return "", fmt.Errorf("ddl: insert into %s: rows must be > 0", fqn)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", d.QuoteFQN(fqn), strings.Join(d.QuoteColumns(cols), ", "))
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range cols {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String(), nil
}
