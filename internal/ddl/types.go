package ddl

// ColumnType is a portable column type. Each Dialect maps it to a concrete
// SQL type.
type ColumnType int

const (
	TypeBigInt ColumnType = iota
	TypeInt
	TypeBool
	// TypeShortText holds names, slugs and paths (indexed, bounded).
	TypeShortText
	// TypeLongText holds free text such as descriptions and page bodies.
	TypeLongText
	TypeTimestamp
)

func (t ColumnType) String() string {
	switch t {
	case TypeBigInt:
		return "bigint"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeShortText:
		return "short_text"
	case TypeLongText:
		return "long_text"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - Type: portable type, mapped by the dialect
//   - SQLType: raw SQL type; when set it wins over Type
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 0, CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	Type       ColumnType
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "schema.table") and is
// quoted part by part by the dialect.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in declaration order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
