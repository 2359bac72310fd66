package config

import (
	"fmt"
	"sort"
	"strings"
)

// Layout versions understood by ResolveLayout.
const (
	LayoutKokenV1 = "koken-v1"
	LayoutKokenV0 = "koken-v0"

	DefaultLayout = LayoutKokenV1
)

// Absent marks a column that the layout version does not carry.
const Absent = -1

// Association leading-id modes.
const (
	LeadingIDAuto    = "auto"
	LeadingIDPresent = "present"
	LeadingIDAbsent  = "absent"
)

// Shape keys used in LayoutConfig.Columns.
const (
	ShapeGallery     = "gallery"
	ShapeAsset       = "asset"
	ShapeAssociation = "association"
	ShapeDocument    = "document"
)

// GalleryColumns holds the positions of gallery attributes in a raw row.
type GalleryColumns struct {
	MinFields   int
	ID          int
	Title       int
	Slug        int
	Summary     int
	Description int
	Listed      int
	Deleted     int
	Featured    int
	TotalCount  int
	PublishedOn int
	CreatedOn   int
	Visibility  int
}

// AssetColumns holds the positions of asset attributes in a raw row.
type AssetColumns struct {
	MinFields int
	ID        int
	Title     int
	Filename  int
	Caption   int
	Deleted   int
}

// AssociationColumns describes the join-table shape. Positions are derived
// from whether a leading join-row id is present.
type AssociationColumns struct {
	MinFields int
	LeadingID string
}

// Positions returns the gallery, asset and order positions for a row with n
// fields.
func (a AssociationColumns) Positions(n int) (gallery, asset, order int) {
	lead := false
	switch a.LeadingID {
	case LeadingIDPresent:
		lead = true
	case LeadingIDAbsent:
		lead = false
	default:
		lead = n >= 4
	}
	if lead {
		return 1, 2, 3
	}
	return 0, 1, 2
}

// TextColumns holds the positions of text-document attributes in a raw row.
type TextColumns struct {
	MinFields   int
	ID          int
	Title       int
	Slug        int
	Content     int
	Draft       int
	Excerpt     int
	Published   int
	PageType    int
	PublishedOn int
	CreatedOn   int
	ModifiedOn  int
}

// Layout is a resolved set of column positions for every record shape.
type Layout struct {
	Version     string
	Gallery     GalleryColumns
	Asset       AssetColumns
	Association AssociationColumns
	Text        TextColumns
}

var builtinLayouts = map[string]Layout{
	// Exports read by the relationship-aware migration: joined association
	// rows carry their own id.
	LayoutKokenV1: {
		Version: LayoutKokenV1,
		Gallery: GalleryColumns{
			MinFields: 23, ID: 0, Title: 1, Slug: 2, Summary: 3, Description: 4,
			Listed: 5, Deleted: 9, Featured: 10, TotalCount: 13,
			PublishedOn: 15, CreatedOn: 16, Visibility: 22,
		},
		Asset: AssetColumns{
			MinFields: 15, ID: 0, Title: 1, Filename: 4, Caption: 5, Deleted: 9,
		},
		Association: AssociationColumns{MinFields: 3, LeadingID: LeadingIDAuto},
		Text: TextColumns{
			MinFields: 12, ID: 0, Title: 1, Slug: 3, Content: 9, Draft: 10,
			Excerpt: 11, Published: 12, PageType: 13,
			PublishedOn: Absent, CreatedOn: 15, ModifiedOn: 16,
		},
	},
	// Older export: wider content rows, compact text rows and association
	// rows without the join-row id.
	LayoutKokenV0: {
		Version: LayoutKokenV0,
		Gallery: GalleryColumns{
			MinFields: 23, ID: 0, Title: 1, Slug: 2, Summary: 3, Description: 4,
			Listed: 5, Deleted: 9, Featured: 10, TotalCount: 13,
			PublishedOn: 15, CreatedOn: 16, Visibility: 22,
		},
		Asset: AssetColumns{
			MinFields: 30, ID: 0, Title: 1, Filename: 4, Caption: 5, Deleted: 9,
		},
		Association: AssociationColumns{MinFields: 3, LeadingID: LeadingIDAbsent},
		Text: TextColumns{
			MinFields: 15, ID: 0, Title: 1, Slug: 2, Content: 3, Draft: Absent,
			Excerpt: 4, Published: 5, PageType: 13,
			PublishedOn: 6, CreatedOn: 7, ModifiedOn: Absent,
		},
	},
}

// LayoutVersions returns the names of the built-in layouts, sorted.
func LayoutVersions() []string {
	out := make([]string, 0, len(builtinLayouts))
	for k := range builtinLayouts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResolveLayout turns a LayoutConfig into concrete column positions. An empty
// version selects DefaultLayout. Unknown versions, shapes or column names are
// errors; a layout that silently ignores a typo would map the wrong columns.
func ResolveLayout(lc LayoutConfig) (Layout, error) {
	version := strings.TrimSpace(lc.Version)
	if version == "" {
		version = DefaultLayout
	}
	l, ok := builtinLayouts[version]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout version %q (known: %s)",
			version, strings.Join(LayoutVersions(), ", "))
	}

	for shape, opts := range lc.Columns {
		var err error
		switch shape {
		case ShapeGallery:
			err = applyColumns(opts, galleryFields(&l.Gallery))
		case ShapeAsset:
			err = applyColumns(opts, assetFields(&l.Asset))
		case ShapeDocument:
			err = applyColumns(opts, textFields(&l.Text))
		case ShapeAssociation:
			err = applyAssociation(opts, &l.Association)
		default:
			err = fmt.Errorf("unknown shape %q", shape)
		}
		if err != nil {
			return Layout{}, fmt.Errorf("layout.columns.%s: %w", shape, err)
		}
	}
	return l, nil
}

func galleryFields(c *GalleryColumns) map[string]*int {
	return map[string]*int{
		"min_fields": &c.MinFields, "id": &c.ID, "title": &c.Title, "slug": &c.Slug,
		"summary": &c.Summary, "description": &c.Description, "listed": &c.Listed,
		"deleted": &c.Deleted, "featured": &c.Featured, "total_count": &c.TotalCount,
		"published_on": &c.PublishedOn, "created_on": &c.CreatedOn, "visibility": &c.Visibility,
	}
}

func assetFields(c *AssetColumns) map[string]*int {
	return map[string]*int{
		"min_fields": &c.MinFields, "id": &c.ID, "title": &c.Title,
		"filename": &c.Filename, "caption": &c.Caption, "deleted": &c.Deleted,
	}
}

func textFields(c *TextColumns) map[string]*int {
	return map[string]*int{
		"min_fields": &c.MinFields, "id": &c.ID, "title": &c.Title, "slug": &c.Slug,
		"content": &c.Content, "draft": &c.Draft, "excerpt": &c.Excerpt,
		"published": &c.Published, "page_type": &c.PageType,
		"published_on": &c.PublishedOn, "created_on": &c.CreatedOn, "modified_on": &c.ModifiedOn,
	}
}

func applyColumns(opts Options, fields map[string]*int) error {
	keys := opts.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		dst, ok := fields[k]
		if !ok {
			return fmt.Errorf("unknown column %q", k)
		}
		v := opts.Int(k, Absent-1)
		if v < Absent {
			return fmt.Errorf("column %q must be an integer >= %d", k, Absent)
		}
		if k == "min_fields" && v < 1 {
			return fmt.Errorf("min_fields must be >= 1")
		}
		*dst = v
	}
	return nil
}

func applyAssociation(opts Options, c *AssociationColumns) error {
	keys := opts.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		switch k {
		case "min_fields":
			v := opts.Int(k, 0)
			if v < 3 {
				return fmt.Errorf("min_fields must be >= 3")
			}
			c.MinFields = v
		case "leading_id":
			switch v := opts.String(k, ""); v {
			case LeadingIDAuto, LeadingIDPresent, LeadingIDAbsent:
				c.LeadingID = v
			default:
				return fmt.Errorf("leading_id must be one of auto, present, absent (got %q)", v)
			}
		default:
			return fmt.Errorf("unknown column %q", k)
		}
	}
	return nil
}
