package sqlite

import (
	"context"
	"strings"

	"gallerymig/internal/ddl"
	"gallerymig/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Dialect renders SQLite DDL and DML. Booleans are stored as INTEGER 0/1 and
// timestamps as DATETIME text.
var Dialect = ddl.Dialect{
	Name:  "sqlite",
	Ident: func(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` },
	Types: map[ddl.ColumnType]string{
		ddl.TypeBigInt:    "INTEGER",
		ddl.TypeInt:       "INTEGER",
		ddl.TypeBool:      "INTEGER",
		ddl.TypeShortText: "TEXT",
		ddl.TypeLongText:  "TEXT",
		ddl.TypeTimestamp: "DATETIME",
	},
	IfNotExists: true,
}

// wrappedRepo adapts *sqlite.Repository to storage.Repository, adding a Close
// method that calls the cleanup function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("sqlite", Dialect)
}
