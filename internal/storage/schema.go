package storage

import "gallerymig/internal/ddl"

// Destination table names without prefix.
const (
	TableGalleries     = "galleries"
	TableGalleryAssets = "gallery_assets"
	TableDocuments     = "documents"
)

// Schema is the destination layout. Prefix is prepended to every table name
// and may carry a schema, e.g. "public.site_".
type Schema struct {
	Prefix string
}

// Tables returns the definitions in creation order.
func (s Schema) Tables() []ddl.TableDef {
	return []ddl.TableDef{s.Galleries(), s.GalleryAssets(), s.Documents()}
}

// Galleries holds one row per emitted gallery.
func (s Schema) Galleries() ddl.TableDef {
	return ddl.TableDef{
		FQN: s.Prefix + TableGalleries,
		Columns: []ddl.ColumnDef{
			{Name: "id", Type: ddl.TypeBigInt, PrimaryKey: true},
			{Name: "slug", Type: ddl.TypeShortText},
			{Name: "title", Type: ddl.TypeShortText},
			{Name: "summary", Type: ddl.TypeLongText, Nullable: true},
			{Name: "description", Type: ddl.TypeLongText, Nullable: true},
			{Name: "permalink", Type: ddl.TypeShortText},
			{Name: "featured", Type: ddl.TypeBool},
			{Name: "featured_image", Type: ddl.TypeShortText, Nullable: true},
			{Name: "year", Type: ddl.TypeInt, Nullable: true},
			{Name: "materials", Type: ddl.TypeShortText, Nullable: true},
			{Name: "dimensions", Type: ddl.TypeShortText, Nullable: true},
			{Name: "published_on", Type: ddl.TypeTimestamp, Nullable: true},
			{Name: "created_on", Type: ddl.TypeTimestamp, Nullable: true},
			{Name: "asset_count", Type: ddl.TypeInt},
			{Name: "run_id", Type: ddl.TypeShortText},
		},
	}
}

// GalleryAssets holds the ordered assets of every gallery. Position is the
// 1-based place in the gallery; display_order is the legacy order value.
func (s Schema) GalleryAssets() ddl.TableDef {
	return ddl.TableDef{
		FQN: s.Prefix + TableGalleryAssets,
		Columns: []ddl.ColumnDef{
			{Name: "gallery_id", Type: ddl.TypeBigInt, PrimaryKey: true},
			{Name: "position", Type: ddl.TypeInt, PrimaryKey: true},
			{Name: "asset_id", Type: ddl.TypeBigInt},
			{Name: "display_order", Type: ddl.TypeInt},
			{Name: "filename", Type: ddl.TypeShortText},
			{Name: "short_name", Type: ddl.TypeShortText},
			{Name: "image_name", Type: ddl.TypeShortText},
			{Name: "title", Type: ddl.TypeShortText, Nullable: true},
			{Name: "caption", Type: ddl.TypeLongText, Nullable: true},
			{Name: "alt", Type: ddl.TypeLongText},
			{Name: "source_path", Type: ddl.TypeShortText, Nullable: true},
			{Name: "run_id", Type: ddl.TypeShortText},
		},
	}
}

// Documents holds the routed text documents.
func (s Schema) Documents() ddl.TableDef {
	return ddl.TableDef{
		FQN: s.Prefix + TableDocuments,
		Columns: []ddl.ColumnDef{
			{Name: "id", Type: ddl.TypeBigInt, PrimaryKey: true},
			{Name: "route", Type: ddl.TypeShortText},
			{Name: "route_title", Type: ddl.TypeShortText},
			{Name: "slug", Type: ddl.TypeShortText},
			{Name: "permalink", Type: ddl.TypeShortText},
			{Name: "title", Type: ddl.TypeShortText},
			{Name: "content", Type: ddl.TypeLongText, Nullable: true},
			{Name: "excerpt", Type: ddl.TypeLongText, Nullable: true},
			{Name: "published", Type: ddl.TypeBool},
			{Name: "page_type", Type: ddl.TypeShortText},
			{Name: "document_date", Type: ddl.TypeTimestamp, Nullable: true},
			{Name: "run_id", Type: ddl.TypeShortText},
		},
	}
}
