package mssql

import (
	"context"
	"testing"

	"gallerymig/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "mssql" backend
// registered in init() goes through the newRepository hook and that Close
// reaches the close function.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		called   bool
		gotCfg   Config
		closed   bool
		fakeRepo = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	dsn := "sqlserver://sa:pw@localhost:1433?database=site"
	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: dsn})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if !called || gotCfg.DSN != dsn {
		t.Fatalf("hook called=%v cfg=%+v", called, gotCfg)
	}
	w, ok := repo.(*wrappedRepo)
	if !ok || w.Repository != fakeRepo {
		t.Fatalf("storage.New() = %T, want wrapped fake", repo)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close() did not invoke closeFn")
	}
}

func TestNewRepository_InvalidDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{DSN: "server=localhost;port=notaport"}); err == nil {
		t.Fatal("expected DSN parse error")
	}
}

// TestCopyFromEmptyRows verifies that CopyFrom short-circuits when no rows
// are provided and does not require a live database connection.
func TestCopyFromEmptyRows(t *testing.T) {
	t.Parallel()

	r := &Repository{}
	got, err := r.CopyFrom(context.Background(), "dbo.t", []string{"id"}, nil)
	if err != nil || got != 0 {
		t.Fatalf("CopyFrom(nil) = %d, %v; want 0, nil", got, err)
	}
}
