package join

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gallerymig/pkg/records"
)

func assetIDs(as []records.Association) []int64 {
	out := make([]int64, 0, len(as))
	for _, a := range as {
		out = append(out, a.AssetID)
	}
	return out
}

// TestResolver_OrderAndStableTies checks ascending order with ties kept in
// join-table order.
func TestResolver_OrderAndStableTies(t *testing.T) {
	t.Parallel()

	r := NewResolver([]records.Association{
		{GalleryID: 56, AssetID: 223, Order: 1},
		{GalleryID: 57, AssetID: 9, Order: 0},
		{GalleryID: 56, AssetID: 224, Order: 0},
		{GalleryID: 56, AssetID: 300, Order: 1},
		{GalleryID: 56, AssetID: 301, Order: 0},
	})

	if diff := cmp.Diff([]int64{224, 301, 223, 300}, assetIDs(r.Lookup(56))); diff != "" {
		t.Fatalf("gallery 56 order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{56, 57}, r.GalleryIDs()); diff != "" {
		t.Fatalf("gallery ids mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 5 {
		t.Fatalf("Len = %d, want 5", r.Len())
	}
}

func TestResolver_UnknownGalleryIsEmpty(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	got := r.Lookup(42)
	if got == nil || len(got) != 0 {
		t.Fatalf("Lookup(unknown) = %#v, want empty non-nil", got)
	}
}

// TestResolver_LookupReturnsCopy guards the read-only grouping map against
// callers that modify the returned slice.
func TestResolver_LookupReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewResolver([]records.Association{{GalleryID: 1, AssetID: 2}})
	got := r.Lookup(1)
	got[0].AssetID = 99
	if r.Lookup(1)[0].AssetID != 2 {
		t.Fatalf("resolver state was mutated through Lookup result")
	}
}
