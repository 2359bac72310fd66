package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gallerymig/internal/ddl"
	"gallerymig/internal/metrics"
)

// DefaultBatchSize is used when LoadOptions.BatchSize is zero.
const DefaultBatchSize = 500

// LoadOptions controls a load.
type LoadOptions struct {
	Job        string
	Kind       string
	Schema     Schema
	BatchSize  int
	AutoCreate bool
	// Replace empties the destination tables before writing.
	Replace bool
	Logger  *zap.SugaredLogger
}

// LoadStats counts the rows written per table.
type LoadStats struct {
	Galleries int64 `json:"galleries" yaml:"galleries"`
	Assets    int64 `json:"assets" yaml:"assets"`
	Documents int64 `json:"documents" yaml:"documents"`
	Batches   int64 `json:"batches" yaml:"batches"`
}

// Load writes a snapshot into repo. The three tables are loaded
// concurrently; the first failure cancels the others.
func Load(ctx context.Context, repo Repository, opts LoadOptions, snap Snapshot) (LoadStats, error) {
	start := time.Now()
	st, err := load(ctx, repo, opts, snap)
	metrics.RecordStage(opts.Job, "load", err, time.Since(start))
	return st, err
}

func load(ctx context.Context, repo Repository, opts LoadOptions, snap Snapshot) (LoadStats, error) {
	var st LoadStats
	if repo == nil {
		return st, errors.New("storage: repository must not be nil")
	}
	if err := ctx.Err(); err != nil {
		return st, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	d, err := DialectFor(opts.Kind)
	if err != nil {
		return st, err
	}
	if opts.AutoCreate {
		if err := EnsureSchema(ctx, repo, d, opts.Schema); err != nil {
			return st, err
		}
	}
	if opts.Replace {
		if err := Truncate(ctx, repo, d, opts.Schema); err != nil {
			return st, err
		}
	}

	jobs := []struct {
		def   ddl.TableDef
		rows  [][]any
		count *int64
	}{
		{opts.Schema.Galleries(), snap.GalleryRows(), &st.Galleries},
		{opts.Schema.GalleryAssets(), snap.AssetRows(), &st.Assets},
		{opts.Schema.Documents(), snap.DocumentRows(), &st.Documents},
	}

	var batches atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		in := make(chan []any, batchSize)
		cols := j.def.ColumnNames()

		g.Go(func() error {
			defer close(in)
			for _, row := range j.rows {
				select {
				case in <- row:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
		g.Go(func() error {
			n, err := LoadBatches(gctx, log, j.def.FQN, cols, in, batchSize,
				func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
					n, err := repo.CopyFrom(ctx, j.def.FQN, columns, rows)
					if err == nil {
						batches.Add(1)
						metrics.RecordBatches(opts.Job, 1)
					}
					return n, err
				})
			*j.count = n
			if err != nil {
				return fmt.Errorf("load %s: %w", j.def.FQN, err)
			}
			return nil
		})
	}
	err = g.Wait()
	st.Batches = batches.Load()

	metrics.RecordRecords(opts.Job, "loaded", st.Galleries+st.Assets+st.Documents)
	log.Infof("load: kind=%s galleries=%d assets=%d documents=%d batches=%d",
		opts.Kind, st.Galleries, st.Assets, st.Documents, st.Batches)
	return st, err
}
