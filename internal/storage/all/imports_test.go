package all

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gallerymig/internal/storage"
)

func TestAllKindsRegistered(t *testing.T) {
	t.Parallel()

	want := []string{"mssql", "mysql", "postgres", "sqlite"}
	if diff := cmp.Diff(want, storage.ListKinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	for _, k := range want {
		if _, err := storage.DialectFor(k); err != nil {
			t.Errorf("DialectFor(%q): %v", k, err)
		}
	}
}
