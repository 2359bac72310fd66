package mysql

import (
	"context"
	"strings"

	"gallerymig/internal/ddl"
	"gallerymig/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Dialect renders MySQL DDL and DML.
var Dialect = ddl.Dialect{
	Name:  "mysql",
	Ident: func(s string) string { return "`" + strings.ReplaceAll(s, "`", "``") + "`" },
	Types: map[ddl.ColumnType]string{
		ddl.TypeBigInt:    "BIGINT",
		ddl.TypeInt:       "INT",
		ddl.TypeBool:      "TINYINT(1)",
		ddl.TypeShortText: "VARCHAR(512)",
		ddl.TypeLongText:  "LONGTEXT",
		ddl.TypeTimestamp: "DATETIME(6)",
	},
	IfNotExists: true,
}

// wrappedRepo adapts *mysql.Repository to storage.Repository and provides
// Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// init registers the "mysql" backend with the factory.
func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("mysql", Dialect)
}
