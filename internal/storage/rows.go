package storage

import (
	"time"

	"gallerymig/pkg/records"
)

// Snapshot is what one load writes: the records of a single run.
type Snapshot struct {
	RunID     string
	Galleries []records.AssembledGallery
	Documents []records.Document
}

// GalleryRows renders the galleries table rows, aligned to Schema.Galleries.
func (s Snapshot) GalleryRows() [][]any {
	out := make([][]any, 0, len(s.Galleries))
	for _, ag := range s.Galleries {
		g := ag.Gallery
		var year any
		if ag.Metadata.Year != nil {
			year = *ag.Metadata.Year
		}
		out = append(out, []any{
			g.ID,
			ag.Slug,
			g.Title,
			nullString(g.Summary),
			nullString(g.Description),
			ag.Permalink,
			ag.Featured,
			nullString(ag.FeaturedImage),
			year,
			nullString(ag.Metadata.Materials),
			nullString(ag.Metadata.Dimensions),
			nullTime(g.PublishedOn),
			nullTime(g.CreatedOn),
			len(ag.Assets),
			s.RunID,
		})
	}
	return out
}

// AssetRows renders the gallery_assets rows, aligned to Schema.GalleryAssets.
func (s Snapshot) AssetRows() [][]any {
	var out [][]any
	for _, ag := range s.Galleries {
		for i, e := range ag.Assets {
			out = append(out, []any{
				ag.Gallery.ID,
				i + 1,
				e.AssetID,
				e.Order,
				e.Filename,
				e.ShortName,
				e.ImageName,
				nullString(e.Title),
				nullString(e.Caption),
				e.Alt,
				nullString(e.SourcePath),
				s.RunID,
			})
		}
	}
	return out
}

// DocumentRows renders the documents rows, aligned to Schema.Documents.
func (s Snapshot) DocumentRows() [][]any {
	out := make([][]any, 0, len(s.Documents))
	for _, d := range s.Documents {
		out = append(out, []any{
			d.ID,
			string(d.Route.Kind),
			d.Route.Title,
			d.Route.Slug,
			d.Route.Permalink,
			d.Title,
			nullString(d.Content),
			nullString(d.Excerpt),
			d.Published,
			d.PageType.String(),
			nullTime(d.Date()),
			s.RunID,
		})
	}
	return out
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
