// Package transformer maps positional dump rows into typed records and runs
// the builtin cleanup chains over them.
//
// Mapping is pure and total: it never returns an error and never panics.
// Rows that cannot be mapped are omitted and counted in MapStats so the
// caller can report them.
package transformer

import (
	"gallerymig/internal/config"
	"gallerymig/internal/parser/ints"
	"gallerymig/internal/transformer/builtin"
	"gallerymig/pkg/records"
)

// MapStats counts what happened to the rows of one table.
type MapStats struct {
	Shape string `json:"shape" yaml:"shape"`
	// Input is the number of raw rows offered.
	Input int `json:"input" yaml:"input"`
	// Mapped is the number of records returned.
	Mapped int `json:"mapped" yaml:"mapped"`
	// Short rows had fewer fields than the layout requires.
	Short int `json:"short" yaml:"short"`
	// Invalid rows had an unusable identifier.
	Invalid int `json:"invalid" yaml:"invalid"`
	// Filtered rows failed the shape's inclusion predicate.
	Filtered int `json:"filtered" yaml:"filtered"`
	// Duplicates were collapsed onto a later row with the same id.
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	// Ambiguous counts rows whose flag columns held values other than 0/1;
	// this usually means the configured layout does not match the dump.
	Ambiguous int `json:"ambiguous" yaml:"ambiguous"`
}

// Dropped returns the number of input rows that did not become records.
func (s MapStats) Dropped() int { return s.Input - s.Mapped }

// Mapper converts raw rows to typed records using a resolved column layout.
type Mapper struct {
	Layout config.Layout

	// PublishedOnly drops text documents without the published flag.
	PublishedOnly bool
}

// NewMapper returns a Mapper for layout.
func NewMapper(layout config.Layout) *Mapper {
	return &Mapper{Layout: layout}
}

// MapGalleries maps gallery rows. Only eligible galleries with a title are
// returned (not deleted, listed, public visibility).
func (m *Mapper) MapGalleries(rows []records.RawRecord) ([]records.Gallery, MapStats) {
	c := m.Layout.Gallery
	st := MapStats{Shape: config.ShapeGallery, Input: len(rows)}
	out := make([]records.Gallery, 0, len(rows))

	for _, r := range rows {
		if r.Len() < c.MinFields {
			st.Short++
			continue
		}
		id, ok := ints.ID(r.String(c.ID))
		if !ok {
			st.Invalid++
			continue
		}

		listed, c1 := builtin.Flag(r.At(c.Listed))
		deleted, c2 := builtin.Flag(r.At(c.Deleted))
		featured, c3 := builtin.Flag(r.At(c.Featured))
		if !c1 || !c2 || !c3 {
			st.Ambiguous++
		}

		out = append(out, records.Gallery{
			ID:          id,
			Title:       r.String(c.Title),
			Slug:        r.String(c.Slug),
			Summary:     r.String(c.Summary),
			Description: r.String(c.Description),
			Listed:      listed,
			Deleted:     deleted,
			Featured:    featured,
			Visibility:  int(builtin.Int(r.At(c.Visibility))),
			PublishedOn: builtin.UnixDate(r.At(c.PublishedOn)),
			CreatedOn:   builtin.UnixDate(r.At(c.CreatedOn)),
			TotalCount:  int(builtin.Int(r.At(c.TotalCount))),
		})
	}

	out = Chain[records.Gallery]{
		builtin.NormalizeGallery{},
		counted[records.Gallery](builtin.DeDup[records.Gallery]{Key: func(g records.Gallery) int64 { return g.ID }}, &st.Duplicates),
		counted[records.Gallery](builtin.Require[records.Gallery]{Keep: func(g records.Gallery) bool {
			return g.Eligible() && g.Title != ""
		}}, &st.Filtered),
	}.Apply(out)

	st.Mapped = len(out)
	return out, st
}

// MapAssets maps asset rows. Rows without a filename are dropped; deleted
// assets are kept so the assembler can tell them apart from missing ones.
func (m *Mapper) MapAssets(rows []records.RawRecord) ([]records.Asset, MapStats) {
	c := m.Layout.Asset
	st := MapStats{Shape: config.ShapeAsset, Input: len(rows)}
	out := make([]records.Asset, 0, len(rows))

	for _, r := range rows {
		if r.Len() < c.MinFields {
			st.Short++
			continue
		}
		id, ok := ints.ID(r.String(c.ID))
		if !ok {
			st.Invalid++
			continue
		}
		deleted, clean := builtin.Flag(r.At(c.Deleted))
		if !clean {
			st.Ambiguous++
		}
		out = append(out, records.Asset{
			ID:       id,
			Title:    r.String(c.Title),
			Filename: r.String(c.Filename),
			Caption:  r.String(c.Caption),
			Deleted:  deleted,
		})
	}

	out = Chain[records.Asset]{
		builtin.NormalizeAsset{},
		counted[records.Asset](builtin.DeDup[records.Asset]{Key: func(a records.Asset) int64 { return a.ID }}, &st.Duplicates),
		counted[records.Asset](builtin.Require[records.Asset]{Keep: func(a records.Asset) bool {
			return a.Filename != ""
		}}, &st.Filtered),
	}.Apply(out)

	st.Mapped = len(out)
	return out, st
}

// MapAssociations maps join-table rows. Whether a leading join-row id is
// present is decided per row from the layout and the row width.
func (m *Mapper) MapAssociations(rows []records.RawRecord) ([]records.Association, MapStats) {
	c := m.Layout.Association
	st := MapStats{Shape: config.ShapeAssociation, Input: len(rows)}
	out := make([]records.Association, 0, len(rows))

	for _, r := range rows {
		if r.Len() < c.MinFields {
			st.Short++
			continue
		}
		gp, ap, op := c.Positions(r.Len())
		gid, ok1 := ints.ID(r.String(gp))
		aid, ok2 := ints.ID(r.String(ap))
		if !ok1 || !ok2 {
			st.Invalid++
			continue
		}
		order := int(builtin.Int(r.At(op)))
		if order < 0 {
			order = 0
		}
		out = append(out, records.Association{GalleryID: gid, AssetID: aid, Order: order})
	}

	st.Mapped = len(out)
	return out, st
}

// MapTextDocuments maps essay and page rows. Bodies are normalized; rows
// without a title are dropped, and so are unpublished ones when
// PublishedOnly is set.
func (m *Mapper) MapTextDocuments(rows []records.RawRecord) ([]records.TextDocument, MapStats) {
	c := m.Layout.Text
	st := MapStats{Shape: config.ShapeDocument, Input: len(rows)}
	out := make([]records.TextDocument, 0, len(rows))

	for _, r := range rows {
		if r.Len() < c.MinFields {
			st.Short++
			continue
		}
		id, ok := ints.ID(r.String(c.ID))
		if !ok {
			st.Invalid++
			continue
		}
		published, clean := builtin.Flag(r.At(c.Published))
		if !clean {
			st.Ambiguous++
		}
		pt := records.PageTypeEssay
		if builtin.Int(r.At(c.PageType)) == int64(records.PageTypePage) {
			pt = records.PageTypePage
		}
		out = append(out, records.TextDocument{
			ID:          id,
			Title:       r.String(c.Title),
			Slug:        r.String(c.Slug),
			Content:     r.String(c.Content),
			Draft:       r.String(c.Draft),
			Excerpt:     r.String(c.Excerpt),
			Published:   published,
			PageType:    pt,
			PublishedOn: builtin.UnixDate(r.At(c.PublishedOn)),
			CreatedOn:   builtin.UnixDate(r.At(c.CreatedOn)),
			ModifiedOn:  builtin.UnixDate(r.At(c.ModifiedOn)),
		})
	}

	out = Chain[records.TextDocument]{
		builtin.NormalizeContent{},
		counted[records.TextDocument](builtin.DeDup[records.TextDocument]{Key: func(d records.TextDocument) int64 { return d.ID }}, &st.Duplicates),
		counted[records.TextDocument](builtin.Require[records.TextDocument]{Keep: func(d records.TextDocument) bool {
			return d.Title != "" && (!m.PublishedOnly || d.Published)
		}}, &st.Filtered),
	}.Apply(out)

	st.Mapped = len(out)
	return out, st
}

// counted wraps t and adds the number of records it removed to *n.
func counted[T any](t Transformer[T], n *int) Transformer[T] {
	return Func[T](func(in []T) []T {
		before := len(in)
		out := t.Apply(in)
		*n += before - len(out)
		return out
	})
}
