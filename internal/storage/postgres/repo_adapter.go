package postgres

import (
	"context"
	"strconv"
	"strings"

	"gallerymig/internal/ddl"
	"gallerymig/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Dialect renders Postgres DDL and DML.
var Dialect = ddl.Dialect{
	Name:  "postgres",
	Ident: pgIdent,
	Types: map[ddl.ColumnType]string{
		ddl.TypeBigInt:    "BIGINT",
		ddl.TypeInt:       "INTEGER",
		ddl.TypeBool:      "BOOLEAN",
		ddl.TypeShortText: "TEXT",
		ddl.TypeLongText:  "TEXT",
		ddl.TypeTimestamp: "TIMESTAMPTZ",
	},
	IfNotExists: true,
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// wrappedRepo implements storage.Repository by delegating to *Repository
// while providing a Close method that calls the close function returned by
// NewRepository.
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
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("postgres", Dialect)
}
