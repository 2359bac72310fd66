package mssql

import (
	"context"
	"strconv"

	"gallerymig/internal/ddl"
	"gallerymig/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Dialect renders SQL Server DDL and DML. Text is NVARCHAR so umlauts and
// other non-ASCII titles survive.
var Dialect = ddl.Dialect{
	Name:  "mssql",
	Ident: msIdent,
	Types: map[ddl.ColumnType]string{
		ddl.TypeBigInt:    "BIGINT",
		ddl.TypeInt:       "INT",
		ddl.TypeBool:      "BIT",
		ddl.TypeShortText: "NVARCHAR(450)",
		ddl.TypeLongText:  "NVARCHAR(MAX)",
		ddl.TypeTimestamp: "DATETIMEOFFSET",
	},
	Guard:       createGuard,
	Placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
}

// wrappedRepo adapts *mssql.Repository to storage.Repository and provides
// Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("mssql", Dialect)
}
