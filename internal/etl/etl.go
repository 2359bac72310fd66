// Package etl runs one extraction: it reads a dump, locates the four record
// tables, maps and filters their rows, joins galleries to assets and routes
// text documents. The result carries the records for the content emitter and
// the diagnostics of every stage.
//
// The run is single-threaded and holds the whole dump in memory.
package etl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"gallerymig/internal/assemble"
	"gallerymig/internal/config"
	"gallerymig/internal/datasource"
	"gallerymig/internal/join"
	"gallerymig/internal/metrics"
	"gallerymig/internal/parser/sqldump"
	"gallerymig/internal/transformer"
	"gallerymig/pkg/records"
)

var (
	// ErrSourceUnreadable wraps any failure to open or read the dump.
	ErrSourceUnreadable = errors.New("dump source unreadable")
	// ErrEmptySource is returned when the dump holds only whitespace.
	ErrEmptySource = errors.New("dump source is empty")
)

// defaultSampleLimit caps the warning messages kept in Diagnostics.
const defaultSampleLimit = 20

// AssetLocator resolves an asset filename to a file on disk.
type AssetLocator interface {
	Find(filename string) (string, bool)
}

// Option customizes a run.
type Option func(*runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithAssetLocator annotates every asset entry with its file on disk.
func WithAssetLocator(l AssetLocator) Option {
	return func(r *runner) { r.assets = l }
}

// WithSampleLimit sets how many warning messages are kept verbatim.
func WithSampleLimit(n int) Option {
	return func(r *runner) {
		if n >= 0 {
			r.sampleLimit = n
		}
	}
}

// Result is the outcome of one run.
type Result struct {
	RunID       string                     `json:"run_id" yaml:"run_id"`
	Job         string                     `json:"job" yaml:"job"`
	Layout      string                     `json:"layout" yaml:"layout"`
	Galleries   []records.AssembledGallery `json:"galleries" yaml:"galleries"`
	Documents   []records.Document         `json:"documents" yaml:"documents"`
	Diagnostics Diagnostics                `json:"diagnostics" yaml:"diagnostics"`

	// Fingerprint is a content hash of Galleries and Documents. Two runs over
	// the same dump and configuration produce the same fingerprint.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Run reads the dump from src and extracts it. Only an unreadable or empty
// source and an invalid layout are errors; everything the dump gets wrong is
// reported in the diagnostics.
func Run(ctx context.Context, src datasource.Source, cfg config.Pipeline, opts ...Option) (*Result, error) {
	start := time.Now()
	text, err := readAll(ctx, src)
	metrics.RecordStage(cfg.Job, "read", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySource
	}
	return RunText(ctx, text, cfg, opts...)
}

func readAll(ctx context.Context, src datasource.Source) (string, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrSourceUnreadable, err)
	}
	return string(b), nil
}

// RunText extracts an in-memory dump.
func RunText(ctx context.Context, text string, cfg config.Pipeline, opts ...Option) (*Result, error) {
	r := &runner{
		job:         cfg.Job,
		log:         zap.NewNop().Sugar(),
		sampleLimit: defaultSampleLimit,
	}
	for _, o := range opts {
		o(r)
	}
	r.warnings = newErrAgg(r.sampleLimit)

	layout, err := config.ResolveLayout(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("resolve layout: %w", err)
	}
	m := transformer.NewMapper(layout)
	m.PublishedOnly = cfg.Filters.PublishedDocumentsOnly

	return r.run(ctx, text, cfg.Tables.WithDefaults(), layout, m)
}

type runner struct {
	job         string
	log         *zap.SugaredLogger
	assets      AssetLocator
	sampleLimit int
	warnings    *errAgg
}

func (r *runner) run(ctx context.Context, text string, tables config.Tables, layout config.Layout, m *transformer.Mapper) (*Result, error) {
	res := &Result{
		RunID:  uuid.NewString(),
		Job:    r.job,
		Layout: layout.Version,
	}
	diag := &res.Diagnostics

	var (
		galleries []records.Gallery
		assets    []records.Asset
		assocs    []records.Association
		docs      []records.TextDocument
	)

	var rows [4][]records.RawRecord
	r.stage("locate", func() {
		dump := sqldump.ParseDump(text)
		r.log.Debugf("locate: tables_in_dump=%v", dump.Tables())

		rows[0] = r.locate(dump, tables.Galleries, config.ShapeGallery, diag)
		rows[1] = r.locate(dump, tables.Assets, config.ShapeAsset, diag)
		rows[2] = r.locate(dump, tables.Associations, config.ShapeAssociation, diag)
		rows[3] = r.locate(dump, tables.Documents, config.ShapeDocument, diag)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.stage("map", func() {
		var st [4]transformer.MapStats
		galleries, st[0] = m.MapGalleries(rows[0])
		assets, st[1] = m.MapAssets(rows[1])
		assocs, st[2] = m.MapAssociations(rows[2])
		docs, st[3] = m.MapTextDocuments(rows[3])
		for i := range diag.Tables {
			diag.Tables[i].Map = st[i]
			r.mapped(diag.Tables[i])
		}
	})

	var resolver *join.Resolver
	r.stage("join", func() {
		resolver = join.NewResolver(assocs)
		r.log.Infof("join: associations=%d galleries_referenced=%d", resolver.Len(), len(resolver.GalleryIDs()))
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.stage("assemble", func() {
		var st assemble.Stats
		res.Galleries, st = assemble.Assemble(galleries, assets, resolver)
		diag.Assembly = st
		if st.AssetsMissing > 0 {
			r.warnings.add(fmt.Sprintf("assemble: %d association(s) reference a missing asset", st.AssetsMissing))
		}
		if st.AssetsUnusable > 0 {
			r.warnings.add(fmt.Sprintf("assemble: %d association(s) reference a deleted asset", st.AssetsUnusable))
		}
		for _, g := range res.Galleries {
			if len(g.Assets) == 0 {
				r.warnings.add(fmt.Sprintf("assemble: gallery %d %q has no assets", g.Gallery.ID, g.Gallery.Title))
			}
		}
		r.log.Infof(
			"assemble: galleries=%d skipped=%d empty=%d assets_matched=%d assets_missing=%d assets_unusable=%d",
			st.GalleriesEligible, st.GalleriesSkipped, st.GalleriesEmpty, st.AssetsMatched, st.AssetsMissing, st.AssetsUnusable,
		)
		metrics.RecordRecords(r.job, "galleries", int64(len(res.Galleries)))
		metrics.RecordRecords(r.job, "assets_missing", int64(st.AssetsMissing))
	})

	if r.assets != nil {
		r.stage("originals", func() {
			diag.Assets = r.locateOriginals(res.Galleries)
		})
	}

	r.stage("classify", func() {
		var st assemble.ClassifyStats
		res.Documents, st = assemble.ClassifyDocuments(docs)
		if st.Shared > 0 {
			r.warnings.add(fmt.Sprintf("classify: %d document(s) share a fixed route with an earlier one", st.Shared))
		}
		r.log.Infof("classify: documents=%d essays=%d fixed=%d shared=%d", len(res.Documents), st.Essays, st.Fixed, st.Shared)
		metrics.RecordRecords(r.job, "documents", int64(len(res.Documents)))
	})

	diag.Warnings = r.warnings.count
	diag.Samples = r.warnings.first

	fp, err := Fingerprint(res.Galleries, res.Documents)
	if err != nil {
		return nil, err
	}
	res.Fingerprint = fp

	for _, line := range diag.Lines() {
		r.log.Info(line)
	}
	return res, nil
}

// stage times fn and records it. In-memory stages cannot fail.
func (r *runner) stage(name string, fn func()) {
	start := time.Now()
	fn()
	metrics.RecordStage(r.job, name, nil, time.Since(start))
}

func (r *runner) locate(dump *sqldump.Dump, table, shape string, diag *Diagnostics) []records.RawRecord {
	rows, st := dump.Records(table)
	diag.Tables = append(diag.Tables, TableReport{Shape: shape, Locate: st})

	if st.Statements == 0 {
		r.warnings.add(fmt.Sprintf("locate: table %s (%s) has no INSERT statements", table, shape))
	}
	if st.Malformed > 0 {
		r.warnings.add(fmt.Sprintf("locate: table %s has %d malformed record group(s)", table, st.Malformed))
	}
	if st.NoValues > 0 {
		r.warnings.add(fmt.Sprintf("locate: table %s has %d INSERT statement(s) without VALUES", table, st.NoValues))
	}
	r.log.Infof("locate: table=%s statements=%d records=%d malformed=%d", table, st.Statements, st.Records, st.Malformed)
	metrics.RecordRecords(r.job, "located", int64(st.Records))
	metrics.RecordRecords(r.job, "malformed", int64(st.Malformed))
	return rows
}

func (r *runner) mapped(t TableReport) {
	st := t.Map
	if st.Short > 0 {
		r.warnings.add(fmt.Sprintf("map: %s: %d row(s) have too few fields", st.Shape, st.Short))
	}
	if st.Invalid > 0 {
		r.warnings.add(fmt.Sprintf("map: %s: %d row(s) have an unusable id", st.Shape, st.Invalid))
	}
	if st.Ambiguous > 0 {
		r.warnings.add(fmt.Sprintf("map: %s: %d flag value(s) were neither 0 nor 1; check the layout", st.Shape, st.Ambiguous))
	}
	r.log.Infof(
		"map: shape=%s input=%d mapped=%d short=%d invalid=%d filtered=%d duplicates=%d",
		st.Shape, st.Input, st.Mapped, st.Short, st.Invalid, st.Filtered, st.Duplicates,
	)
	metrics.RecordRecords(r.job, "mapped", int64(st.Mapped))
	metrics.RecordRecords(r.job, "dropped", int64(st.Dropped()))
}

func (r *runner) locateOriginals(galleries []records.AssembledGallery) *AssetReport {
	rep := &AssetReport{}
	for gi := range galleries {
		for ai := range galleries[gi].Assets {
			e := &galleries[gi].Assets[ai]
			if p, ok := r.assets.Find(e.Filename); ok {
				e.SourcePath = p
				rep.Resolved++
				continue
			}
			rep.Unresolved++
			r.warnings.add(fmt.Sprintf("originals: no file for asset %d %q", e.AssetID, e.Filename))
		}
	}
	r.log.Infof("originals: resolved=%d unresolved=%d", rep.Resolved, rep.Unresolved)
	return rep
}

// Fingerprint hashes the emitted records with XXH3. Volatile run data such
// as the run id is not part of the hash.
func Fingerprint(galleries []records.AssembledGallery, docs []records.Document) (string, error) {
	b, err := json.Marshal(struct {
		Galleries []records.AssembledGallery `json:"galleries"`
		Documents []records.Document         `json:"documents"`
	}{galleries, docs})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return fmt.Sprintf("%016x", xxh3.Hash(b)), nil
}
