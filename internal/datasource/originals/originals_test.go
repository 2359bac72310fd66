package originals

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, root string, parts ...string) string {
	t.Helper()
	p := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLocator_Find(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	detail := touch(t, root, "0a", "3f", "die-wilde-Fleurie-Boden-Detail.jpeg")
	resized := touch(t, root, "1b", "00", "die-wilde-Fleurie-Nina-Laaf-2022.1600.jpg")
	first := touch(t, root, "0a", "01", "dup.jpg")
	touch(t, root, "ff", "01", "dup.jpg")
	both := touch(t, root, "2c", "10", "both.jpg")
	touch(t, root, "2c", "11", "both.1600.jpg")
	touch(t, root, "stray.jpg")
	touch(t, root, "0a", "too-shallow.jpg")

	l, err := Index(context.Background(), root, 2)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"die-wilde-Fleurie-Boden-Detail.jpeg", detail, true},
		{"die-wilde-Fleurie-Nina-Laaf-2022.jpg", resized, true},
		{"dup.jpg", first, true},
		{"both.jpg", both, true},
		{"stray.jpg", "", false},
		{"too-shallow.jpg", "", false},
		{"missing.jpg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := l.Find(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("Find(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndex_MissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Index(context.Background(), filepath.Join(t.TempDir(), "nope"), 0); err == nil {
		t.Fatal("expected error for a missing root")
	}
}

func TestIndex_Canceled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "0a", "01", "a.jpg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Index(ctx, root, 1); err == nil {
		t.Fatal("expected context error")
	}
}

func TestNilLocator(t *testing.T) {
	t.Parallel()

	var l *Locator
	if _, ok := l.Find("a.jpg"); ok {
		t.Fatal("nil locator found something")
	}
}
