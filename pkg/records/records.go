// Package records defines the plain in-memory record types that flow through
// the extraction pipeline: positional raw rows as tokenized from a dump, the
// typed per-table records produced by the mapper, and the assembled gallery
// records handed to downstream consumers (exporters, storage loaders).
//
// All types are values without behavior beyond small predicates and
// accessors. Once produced they are treated as read-only.
package records

import "time"

// Field is one positional value of a raw row. Valid is false when the dump
// carried an explicit NULL, which is distinct from a present empty string.
type Field struct {
	Value string
	Valid bool
}

// Text returns a present field holding s.
func Text(s string) Field { return Field{Value: s, Valid: true} }

// Null is the absent field.
var Null = Field{}

// RawRecord is the ordered field sequence of one parenthesized group in an
// INSERT statement. Positions mirror the source table's column order.
type RawRecord []Field

// Len returns the number of fields in the row.
func (r RawRecord) Len() int { return len(r) }

// At returns the field at position i. Positions past the end of the row are
// reported as absent rather than panicking, so short rows degrade gracefully.
func (r RawRecord) At(i int) Field {
	if i < 0 || i >= len(r) {
		return Null
	}
	return r[i]
}

// String returns the value at position i, or "" when absent.
func (r RawRecord) String(i int) string {
	return r.At(i).Value
}

// Visibility codes used by the legacy gallery schema.
const (
	VisibilityPublic   = 0
	VisibilityUnlisted = 1
	VisibilityPrivate  = 2
)

// Gallery is a named, ordered collection of assets (an "album" in the
// legacy schema).
type Gallery struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Slug        string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	Summary     string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Listed      bool       `json:"listed" yaml:"listed"`
	Deleted     bool       `json:"deleted" yaml:"deleted"`
	Featured    bool       `json:"featured" yaml:"featured"`
	Visibility  int        `json:"visibility" yaml:"visibility"`
	PublishedOn *time.Time `json:"published_on,omitempty" yaml:"published_on,omitempty"`
	CreatedOn   *time.Time `json:"created_on,omitempty" yaml:"created_on,omitempty"`
	TotalCount  int        `json:"total_count" yaml:"total_count"`
}

// Eligible reports whether the gallery may be emitted: not deleted, listed,
// and publicly visible.
func (g Gallery) Eligible() bool {
	return !g.Deleted && g.Listed && g.Visibility == VisibilityPublic
}

// Asset is a single media item (a "content" row in the legacy schema).
type Asset struct {
	ID       int64  `json:"id" yaml:"id"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Filename string `json:"filename" yaml:"filename"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Deleted  bool   `json:"deleted" yaml:"deleted"`
}

// Usable reports whether the asset can be referenced from a gallery.
func (a Asset) Usable() bool {
	return a.Filename != "" && !a.Deleted
}

// Association links a gallery to an asset with an explicit display order.
type Association struct {
	GalleryID int64 `json:"gallery_id" yaml:"gallery_id"`
	AssetID   int64 `json:"asset_id" yaml:"asset_id"`
	Order     int   `json:"order" yaml:"order"`
}

// PageType discriminates essays from standalone pages.
type PageType int

const (
	PageTypeEssay PageType = 0
	PageTypePage  PageType = 1
)

func (p PageType) String() string {
	if p == PageTypePage {
		return "page"
	}
	return "essay"
}

// TextDocument is an essay or standalone page.
type TextDocument struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Slug        string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
	Draft       string     `json:"draft,omitempty" yaml:"draft,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Published   bool       `json:"published" yaml:"published"`
	PageType    PageType   `json:"page_type" yaml:"page_type"`
	PublishedOn *time.Time `json:"published_on,omitempty" yaml:"published_on,omitempty"`
	CreatedOn   *time.Time `json:"created_on,omitempty" yaml:"created_on,omitempty"`
	ModifiedOn  *time.Time `json:"modified_on,omitempty" yaml:"modified_on,omitempty"`
}

// Date returns the best-known date of the document: published, then
// created, then modified.
func (d TextDocument) Date() *time.Time {
	switch {
	case d.PublishedOn != nil:
		return d.PublishedOn
	case d.CreatedOn != nil:
		return d.CreatedOn
	default:
		return d.ModifiedOn
	}
}

// Metadata is best-effort enrichment parsed from free text. Every field may
// be empty.
type Metadata struct {
	Year       *int   `json:"year,omitempty" yaml:"year,omitempty"`
	Materials  string `json:"materials,omitempty" yaml:"materials,omitempty"`
	Dimensions string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// AssetEntry is one asset of an assembled gallery, in display order.
type AssetEntry struct {
	AssetID    int64  `json:"asset_id" yaml:"asset_id"`
	Order      int    `json:"order" yaml:"order"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Filename   string `json:"filename" yaml:"filename"`
	Caption    string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Alt        string `json:"alt" yaml:"alt"`
	ShortName  string `json:"short_name" yaml:"short_name"`
	// ImageName is ShortName plus the original file extension.
	ImageName  string `json:"image_name" yaml:"image_name"`
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// AssembledGallery is an eligible gallery joined to its ordered assets and
// derived metadata.
type AssembledGallery struct {
	Gallery   Gallery      `json:"gallery" yaml:"gallery"`
	Slug      string       `json:"slug" yaml:"slug"`
	Permalink string       `json:"permalink" yaml:"permalink"`
	Assets    []AssetEntry `json:"assets" yaml:"assets"`
	Metadata  Metadata     `json:"metadata" yaml:"metadata"`
	// Featured is set when the gallery was flagged featured or has at
	// least one asset.
	Featured      bool   `json:"featured" yaml:"featured"`
	FeaturedImage string `json:"featured_image,omitempty" yaml:"featured_image,omitempty"`
}

// RouteKind names where a text document lives on the rendered site.
type RouteKind string

const (
	RouteCV      RouteKind = "cv"
	RouteContact RouteKind = "contact"
	RouteNews    RouteKind = "news"
	RouteEssay   RouteKind = "essay"
)

// Route is the classification of a text document.
type Route struct {
	Kind      RouteKind `json:"kind" yaml:"kind"`
	Title     string    `json:"title" yaml:"title"`
	Slug      string    `json:"slug" yaml:"slug"`
	Permalink string    `json:"permalink" yaml:"permalink"`
}

// Document is a text document together with its route.
type Document struct {
	TextDocument `json:"document" yaml:"document"`
	Route        Route `json:"route" yaml:"route"`
}
