// Package join rebuilds ordered gallery→asset lists from the many-to-many
// association table.
package join

import (
	"sort"

	"gallerymig/pkg/records"
)

// Resolver groups associations by gallery id. It is built once and is
// read-only afterwards, so concurrent lookups are safe.
type Resolver struct {
	groups map[int64][]records.Association
	order  []int64
	total  int
}

// NewResolver groups assocs by gallery id and stable-sorts each group by
// Order ascending. Entries with equal Order keep their input order.
func NewResolver(assocs []records.Association) *Resolver {
	r := &Resolver{groups: make(map[int64][]records.Association)}
	for _, a := range assocs {
		if _, ok := r.groups[a.GalleryID]; !ok {
			r.order = append(r.order, a.GalleryID)
		}
		r.groups[a.GalleryID] = append(r.groups[a.GalleryID], a)
	}
	for _, g := range r.groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].Order < g[j].Order })
	}
	r.total = len(assocs)
	return r
}

// Lookup returns the ordered associations of galleryID. Unknown ids yield
// an empty, non-nil slice. The result is a copy the caller may modify.
func (r *Resolver) Lookup(galleryID int64) []records.Association {
	g := r.groups[galleryID]
	out := make([]records.Association, len(g))
	copy(out, g)
	return out
}

// GalleryIDs returns the gallery ids in order of first appearance.
func (r *Resolver) GalleryIDs() []int64 {
	out := make([]int64, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of associations grouped.
func (r *Resolver) Len() int { return r.total }
