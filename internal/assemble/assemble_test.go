package assemble

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gallerymig/internal/join"
	"gallerymig/pkg/records"
)

func eligible(id int64, title string) records.Gallery {
	return records.Gallery{ID: id, Title: title, Listed: true}
}

func entryIDs(es []records.AssetEntry) []int64 {
	out := make([]int64, 0, len(es))
	for _, e := range es {
		out = append(out, e.AssetID)
	}
	return out
}

// TestAssemble_OrderedAssets is the album 56 scenario: order 0 comes before
// order 1 regardless of join-table position.
func TestAssemble_OrderedAssets(t *testing.T) {
	t.Parallel()

	galleries := []records.Gallery{eligible(56, "Die wilde Fleurie")}
	assets := []records.Asset{
		{ID: 223, Title: "Links", Filename: "fleurie_1.jpg"},
		{ID: 224, Filename: "Fleurie 2.JPG", Caption: "Detail"},
	}
	res := join.NewResolver([]records.Association{
		{GalleryID: 56, AssetID: 223, Order: 1},
		{GalleryID: 56, AssetID: 224, Order: 0},
	})

	got, st := Assemble(galleries, assets, res)
	if len(got) != 1 {
		t.Fatalf("assembled = %d, want 1", len(got))
	}
	if diff := cmp.Diff([]int64{224, 223}, entryIDs(got[0].Assets)); diff != "" {
		t.Fatalf("asset order mismatch (-want +got):\n%s", diff)
	}

	first := got[0].Assets[0]
	if first.ShortName != "fleurie-2" || first.ImageName != "fleurie-2.JPG" || first.Alt != "Detail" {
		t.Fatalf("first entry = %+v", first)
	}
	if got[0].Assets[1].Alt != "Links" {
		t.Fatalf("alt should prefer the asset title, got %q", got[0].Assets[1].Alt)
	}
	if got[0].FeaturedImage != "images/fleurie-2.JPG" || !got[0].Featured {
		t.Fatalf("featured = %v %q", got[0].Featured, got[0].FeaturedImage)
	}
	if got[0].Slug != "die-wilde-fleurie" || got[0].Permalink != "/works/die-wilde-fleurie/" {
		t.Fatalf("slug = %q permalink = %q", got[0].Slug, got[0].Permalink)
	}
	want := Stats{GalleriesSeen: 1, GalleriesEligible: 1, AssetsMatched: 2}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

// TestAssemble_MissingAndUnusableAssets checks that dangling references are
// dropped and counted once each.
func TestAssemble_MissingAndUnusableAssets(t *testing.T) {
	t.Parallel()

	galleries := []records.Gallery{eligible(1, "Serie")}
	assets := []records.Asset{
		{ID: 10, Filename: "a.jpg"},
		{ID: 11, Filename: "b.jpg", Deleted: true},
	}
	res := join.NewResolver([]records.Association{
		{GalleryID: 1, AssetID: 10},
		{GalleryID: 1, AssetID: 999},
		{GalleryID: 1, AssetID: 11},
	})

	got, st := Assemble(galleries, assets, res)
	if diff := cmp.Diff([]int64{10}, entryIDs(got[0].Assets)); diff != "" {
		t.Fatalf("assets mismatch (-want +got):\n%s", diff)
	}
	if st.AssetsMissing != 1 || st.AssetsUnusable != 1 || st.AssetsMatched != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

// TestAssemble_IneligibleNeverEmitted runs every disqualifying combination
// through the assembler.
func TestAssemble_IneligibleNeverEmitted(t *testing.T) {
	t.Parallel()

	galleries := []records.Gallery{
		{ID: 1, Title: "deleted", Listed: true, Deleted: true},
		{ID: 2, Title: "unlisted"},
		{ID: 3, Title: "private", Listed: true, Visibility: records.VisibilityPrivate},
		{ID: 4, Title: "unlisted vis", Listed: true, Visibility: records.VisibilityUnlisted},
		{ID: 5, Title: "all bad", Deleted: true, Visibility: 2},
		eligible(6, "ok"),
	}
	got, st := Assemble(galleries, nil, join.NewResolver(nil))
	if len(got) != 1 || got[0].Gallery.ID != 6 {
		t.Fatalf("assembled = %+v", got)
	}
	if st.GalleriesSkipped != 5 || st.GalleriesEmpty != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if got[0].Assets == nil || got[0].FeaturedImage != "" || got[0].Featured {
		t.Fatalf("empty gallery = %+v", got[0])
	}
}

func TestAssemble_DuplicateSlugs(t *testing.T) {
	t.Parallel()

	got, _ := Assemble([]records.Gallery{eligible(1, "Ohne Titel"), eligible(2, "Ohne  Titel")}, nil, join.NewResolver(nil))
	if got[0].Slug != "ohne-titel" || got[1].Slug != "ohne-titel-2" {
		t.Fatalf("slugs = %q, %q", got[0].Slug, got[1].Slug)
	}
}

// TestAssemble_SlugSuffixNeverCollides covers a title that already equals
// the suffixed slug of a later duplicate.
func TestAssemble_SlugSuffixNeverCollides(t *testing.T) {
	t.Parallel()

	got, _ := Assemble([]records.Gallery{
		eligible(9, "Foo"),
		eligible(3, "Foo 5"),
		eligible(5, "Foo"),
	}, nil, join.NewResolver(nil))
	slugs := []string{got[0].Slug, got[1].Slug, got[2].Slug}
	if diff := cmp.Diff([]string{"foo", "foo-5", "foo-5-2"}, slugs); diff != "" {
		t.Fatalf("slugs mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_Empty(t *testing.T) {
	t.Parallel()

	got, st := Assemble(nil, nil, join.NewResolver(nil))
	if got == nil || len(got) != 0 || st != (Stats{}) {
		t.Fatalf("got %#v %+v", got, st)
	}
}
