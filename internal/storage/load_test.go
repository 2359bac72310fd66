package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gallerymig/internal/ddl"
	"gallerymig/pkg/records"
)

func init() {
	RegisterDialect("fakesql", ddl.Generic)
}

func testSnapshot() Snapshot {
	year := 2019
	pub := time.Date(2019, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	return Snapshot{
		RunID: "run-1",
		Galleries: []records.AssembledGallery{
			{
				Gallery:   records.Gallery{ID: 56, Title: "Landschaften", PublishedOn: &pub},
				Slug:      "landschaften",
				Permalink: "/galleries/landschaften/",
				Featured:  true,
				Metadata:  records.Metadata{Year: &year, Materials: "Öl auf Leinwand"},
				Assets: []records.AssetEntry{
					{AssetID: 224, Order: 0, Filename: "b.jpg", ShortName: "b", ImageName: "b.jpg", Alt: "B"},
					{AssetID: 223, Order: 1, Filename: "a.jpg", ShortName: "a", ImageName: "a.jpg", Alt: "A", Caption: "first"},
				},
			},
			{
				Gallery:   records.Gallery{ID: 59, Title: "Leer"},
				Slug:      "leer",
				Permalink: "/galleries/leer/",
			},
		},
		Documents: []records.Document{
			{
				TextDocument: records.TextDocument{ID: 1, Title: "Lebenslauf", Published: true, PageType: records.PageTypePage},
				Route:        records.Route{Kind: records.RouteCV, Title: "CV", Slug: "cv", Permalink: "/cv/"},
			},
		},
	}
}

func TestSnapshotRows(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	schema := Schema{}

	g := s.GalleryRows()
	if len(g) != 2 {
		t.Fatalf("gallery rows = %d, want 2", len(g))
	}
	if len(g[0]) != len(schema.Galleries().Columns) {
		t.Fatalf("gallery row width = %d, want %d", len(g[0]), len(schema.Galleries().Columns))
	}
	if g[0][8] != 2019 || g[0][13] != 2 || g[0][3] != nil {
		t.Fatalf("gallery row = %v", g[0])
	}
	if got := g[0][11].(time.Time); got.Location() != time.UTC || got.Hour() != 8 {
		t.Fatalf("published_on = %v, want 08:00 UTC", got)
	}
	if g[1][8] != nil || g[1][11] != nil {
		t.Fatalf("missing year and date should be NULL: %v", g[1])
	}

	a := s.AssetRows()
	if len(a) != 2 {
		t.Fatalf("asset rows = %d, want 2", len(a))
	}
	if len(a[0]) != len(schema.GalleryAssets().Columns) {
		t.Fatalf("asset row width = %d", len(a[0]))
	}
	gotPos := [][]any{{a[0][0], a[0][1], a[0][2]}, {a[1][0], a[1][1], a[1][2]}}
	wantPos := [][]any{{int64(56), 1, int64(224)}, {int64(56), 2, int64(223)}}
	if diff := cmp.Diff(wantPos, gotPos); diff != "" {
		t.Fatalf("asset positions mismatch (-want +got):\n%s", diff)
	}

	d := s.DocumentRows()
	if len(d) != 1 || len(d[0]) != len(schema.Documents().Columns) {
		t.Fatalf("document rows = %v", d)
	}
	if d[0][1] != "cv" || d[0][9] != "page" || d[0][10] != nil {
		t.Fatalf("document row = %v", d[0])
	}
}

func TestLoad_WritesAllTables(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	st, err := Load(context.Background(), repo, LoadOptions{
		Job:        "koken",
		Kind:       "fakesql",
		Schema:     Schema{Prefix: "site_"},
		BatchSize:  1,
		AutoCreate: true,
		Replace:    true,
	}, testSnapshot())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := LoadStats{Galleries: 2, Assets: 2, Documents: 1, Batches: 5}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	if len(repo.execs) != 6 {
		t.Fatalf("execs = %d, want 3 creates and 3 deletes:\n%s", len(repo.execs), strings.Join(repo.execs, "\n"))
	}
	for i, prefix := range []string{
		"CREATE TABLE site_galleries (",
		"CREATE TABLE site_gallery_assets (",
		"CREATE TABLE site_documents (",
		"DELETE FROM site_documents",
		"DELETE FROM site_gallery_assets",
		"DELETE FROM site_galleries",
	} {
		if !strings.HasPrefix(repo.execs[i], prefix) {
			t.Fatalf("exec #%d = %q, want prefix %q", i, repo.execs[i], prefix)
		}
	}

	if diff := cmp.Diff(Schema{Prefix: "site_"}.Documents().ColumnNames(), repo.cols["site_documents"]); diff != "" {
		t.Fatalf("document columns mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NoDDLByDefault(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	if _, err := Load(context.Background(), repo, LoadOptions{Kind: "fakesql"}, testSnapshot()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(repo.execs) != 0 {
		t.Fatalf("execs = %v, want none", repo.execs)
	}
	if got := len(repo.rows[TableGalleries]); got != 2 {
		t.Fatalf("galleries rows = %d, want 2", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if _, err := Load(ctx, nil, LoadOptions{Kind: "fakesql"}, testSnapshot()); err == nil {
		t.Fatal("nil repository should fail")
	}
	if _, err := Load(ctx, newFakeRepo(), LoadOptions{Kind: "unknown"}, testSnapshot()); err == nil {
		t.Fatal("unknown dialect should fail")
	}

	repo := newFakeRepo()
	repo.failOn = TableGalleryAssets
	_, err := Load(ctx, repo, LoadOptions{Kind: "fakesql", BatchSize: 1}, testSnapshot())
	if err == nil || !strings.Contains(err.Error(), "load gallery_assets: copy refused") {
		t.Fatalf("err = %v, want copy failure for gallery_assets", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, newFakeRepo(), LoadOptions{Kind: "fakesql", BatchSize: 1}, testSnapshot())
	if err == nil {
		t.Fatal("expected error on canceled context")
	}
}
