// Package config defines the serializable configuration model for a dump
// extraction run. It is small and explicit so that runs can be described in a
// JSON or YAML file and passed through the program without glue code.
//
// Example (trimmed):
//
//	{
//	  "job":    "koken-migration",
//	  "source": { "kind": "file", "file": { "path": "dump.sql" } },
//	  "tables": { "galleries": "koken_albums" },
//	  "layout": { "version": "koken-v1", "columns": { "gallery": { "visibility": 22 } } },
//	  "output": { "format": "yaml", "path": "out/records.yaml" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "file:out/site.db", "auto_create_table": true } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pipeline describes a full extraction run. It is the top-level object
// decoded from a pipeline file.
type Pipeline struct {
	// Job names the run for logs and metrics.
	Job string `json:"job" yaml:"job"`

	// Source describes where the dump text comes from.
	Source Source `json:"source" yaml:"source"`

	// Tables maps the four record shapes onto table names in the dump.
	Tables Tables `json:"tables" yaml:"tables"`

	// Layout selects the column-position layout of the dump's export version.
	Layout LayoutConfig `json:"layout" yaml:"layout"`

	// Filters tightens the default inclusion predicates.
	Filters Filters `json:"filters" yaml:"filters"`

	// Output configures the serialized record set for the content emitter.
	Output Output `json:"output" yaml:"output"`

	// Storage optionally loads the assembled records into a database.
	Storage Storage `json:"storage" yaml:"storage"`

	// Assets optionally points at the legacy originals tree so asset entries
	// can be annotated with their source file.
	Assets Assets `json:"assets" yaml:"assets"`
}

// Source identifies the dump source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
}

// SourceFile holds configuration for the "file" source kind. A path ending
// in ".gz" is decompressed on the fly.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP holds configuration for the "http" source kind, used when the
// dump sits on the old host's backup endpoint.
type SourceHTTP struct {
	URL                string `json:"url" yaml:"url"`
	TimeoutSeconds     int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries         int    `json:"max_retries" yaml:"max_retries"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Tables names the dump tables that carry each record shape.
type Tables struct {
	Galleries    string `json:"galleries" yaml:"galleries"`
	Assets       string `json:"assets" yaml:"assets"`
	Associations string `json:"associations" yaml:"associations"`
	Documents    string `json:"documents" yaml:"documents"`
}

// Default table names of the legacy gallery CMS.
const (
	DefaultGalleriesTable    = "koken_albums"
	DefaultAssetsTable       = "koken_content"
	DefaultAssociationsTable = "koken_join_albums_content"
	DefaultDocumentsTable    = "koken_text"
)

// WithDefaults fills empty table names with the legacy defaults.
func (t Tables) WithDefaults() Tables {
	if t.Galleries == "" {
		t.Galleries = DefaultGalleriesTable
	}
	if t.Assets == "" {
		t.Assets = DefaultAssetsTable
	}
	if t.Associations == "" {
		t.Associations = DefaultAssociationsTable
	}
	if t.Documents == "" {
		t.Documents = DefaultDocumentsTable
	}
	return t
}

// LayoutConfig selects a built-in column layout by version and optionally
// overrides individual column positions per shape, e.g.
//
//	"columns": { "gallery": { "visibility": 21, "min_fields": 22 } }
//
// Shape keys are "gallery", "asset", "association" and "document".
type LayoutConfig struct {
	Version string             `json:"version" yaml:"version"`
	Columns map[string]Options `json:"columns" yaml:"columns"`
}

// Filters holds optional inclusion predicates on top of the fixed ones
// (eligible galleries, assets with a filename, documents with a title).
type Filters struct {
	// PublishedDocumentsOnly drops text documents whose published flag is
	// not set. Off by default: unpublished pages are still migrated.
	PublishedDocumentsOnly bool `json:"published_documents_only" yaml:"published_documents_only"`
}

// Output configures where the assembled record set is written.
type Output struct {
	// Format is "json" (default) or "yaml".
	Format string `json:"format" yaml:"format"`
	// Path is the destination file; empty or "-" means stdout.
	Path string `json:"path" yaml:"path"`
}

// Storage selects the sink used to persist assembled records. An empty Kind
// disables loading.
type Storage struct {
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the driver-specific connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// TablePrefix is prepended to the destination table names
	// ("galleries", "gallery_assets", "documents"). May carry a schema,
	// e.g. "public.site_".
	TablePrefix string `json:"table_prefix" yaml:"table_prefix"`

	// AutoCreateTable creates destination tables when missing.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`

	// BatchSize bounds the rows per bulk insert.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Replace deletes existing rows of the destination tables before loading.
	Replace bool `json:"replace" yaml:"replace"`
}

// Assets locates the legacy originals tree.
type Assets struct {
	OriginalsPath string `json:"originals_path" yaml:"originals_path"`
}

// Load reads a pipeline file. Files ending in .yaml or .yml are decoded with
// yaml.v3; everything else as JSON.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	return Decode(b, filepath.Ext(path))
}

// Decode decodes pipeline bytes; ext selects the format (".yaml"/".yml" for
// YAML, anything else for JSON).
func Decode(b []byte, ext string) (Pipeline, error) {
	var p Pipeline
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &p); err != nil {
			return Pipeline{}, fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &p); err != nil {
			return Pipeline{}, fmt.Errorf("decode json config: %w", err)
		}
	}
	return p, nil
}

// Options is a small helper to fetch typed values from free-form maps
// decoded from JSON or YAML. It performs only minimal type coercion and
// returns the provided default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. encoding/json decodes numbers as
// float64 while yaml.v3 produces int, so both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Keys returns the option keys (unordered).
func (o Options) Keys() []string {
	out := make([]string, 0, len(o))
	for k := range o {
		out = append(out, k)
	}
	return out
}

// UnmarshalJSON makes a missing or null options object decode to a non-nil,
// empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
