package storage

import (
	"context"
	"fmt"

	"gallerymig/internal/ddl"
)

// RegisterDialect registers (or replaces) the SQL dialect for kind. Backends
// call it from init next to Register.
func RegisterDialect(kind string, d ddl.Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the dialect registered for kind.
func DialectFor(kind string) (ddl.Dialect, error) {
	mu.RLock()
	d, ok := dialects[kind]
	mu.RUnlock()
	if !ok {
		return ddl.Dialect{}, fmt.Errorf("no dialect registered for storage.kind=%q", kind)
	}
	return d, nil
}

// EnsureSchema creates the destination tables that do not exist yet.
func EnsureSchema(ctx context.Context, repo Repository, d ddl.Dialect, s Schema) error {
	for _, t := range s.Tables() {
		stmt, err := d.CreateTable(t)
		if err != nil {
			return fmt.Errorf("render %s: %w", t.FQN, err)
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", t.FQN, err)
		}
	}
	return nil
}

// Truncate deletes every row of the destination tables, children first.
func Truncate(ctx context.Context, repo Repository, d ddl.Dialect, s Schema) error {
	tables := s.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := repo.Exec(ctx, d.DeleteAll(tables[i].FQN)); err != nil {
			return fmt.Errorf("delete from %s: %w", tables[i].FQN, err)
		}
	}
	return nil
}
