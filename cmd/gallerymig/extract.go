package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"gallerymig/internal/config"
	"gallerymig/internal/datasource"
	"gallerymig/internal/datasource/originals"
	"gallerymig/internal/etl"
	"gallerymig/internal/export"
)

// runPipeline is a test seam over etl.Run.
var runPipeline = etl.Run

type extractOptions struct {
	format        string
	out           string
	originals     string
	publishedOnly bool
	watch         bool
	debounce      time.Duration
}

func newExtractCmd(ro *rootOptions) *cobra.Command {
	var eo extractOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract galleries and pages from a dump and write them as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ro.prepare(cmd, eo.apply)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			once := func(ctx context.Context) error {
				res, err := extract(ctx, ro, p)
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), p.Output, res)
			}
			if !eo.watch {
				return once(ctx)
			}

			if p.Source.Kind != "file" {
				return fmt.Errorf("--watch needs a file source, got %q", p.Source.Kind)
			}
			if err := once(ctx); err != nil {
				ro.log.Errorf("extract: %v", err)
			}
			w, err := newDumpWatcher(p.Source.File.Path)
			if err != nil {
				return err
			}
			defer w.Close()
			ro.log.Infof("watch: path=%s debounce=%s", p.Source.File.Path, eo.debounce)
			return w.Run(ctx, ro.log, eo.debounce, once)
		},
	}

	f := cmd.Flags()
	f.StringVar(&eo.format, "format", "", "output format: json or yaml (default from --out extension)")
	f.StringVarP(&eo.out, "out", "o", "", "output file; empty or - writes to stdout")
	f.StringVar(&eo.originals, "originals", "", "originals tree to resolve asset files against")
	f.BoolVar(&eo.publishedOnly, "published-only", false, "drop unpublished text documents")
	f.BoolVarP(&eo.watch, "watch", "w", false, "re-run whenever the dump file changes")
	f.DurationVar(&eo.debounce, "debounce", 500*time.Millisecond, "quiet period before a watch re-run")
	return cmd
}

// apply layers the extract flags over the pipeline.
func (eo *extractOptions) apply(p *config.Pipeline) {
	p.Output.Path = pick(eo.out, p.Output.Path)
	p.Output.Format = pick(eo.format, p.Output.Format)
	if p.Output.Format == "" && p.Output.Path != "" && p.Output.Path != "-" {
		p.Output.Format = export.FormatFromPath(p.Output.Path)
	}
	p.Assets.OriginalsPath = pick(eo.originals, p.Assets.OriginalsPath)
	if eo.publishedOnly {
		p.Filters.PublishedDocumentsOnly = true
	}
}

// extract runs the pipeline once for p.
func extract(ctx context.Context, ro *rootOptions, p config.Pipeline) (*etl.Result, error) {
	src, err := datasource.FromConfig(p.Source)
	if err != nil {
		return nil, err
	}
	opts := []etl.Option{etl.WithLogger(ro.log)}
	if root := p.Assets.OriginalsPath; root != "" {
		loc, err := originals.Index(ctx, root, 0)
		if err != nil {
			return nil, err
		}
		ro.log.Infof("originals: root=%s files=%d", loc.Root(), loc.Len())
		opts = append(opts, etl.WithAssetLocator(loc))
	}

	start := time.Now()
	res, err := runPipeline(ctx, src, p, opts...)
	if err != nil {
		return nil, err
	}
	ro.log.Infof("extract: run_id=%s galleries=%d documents=%d fingerprint=%s elapsed=%s",
		res.RunID, len(res.Galleries), len(res.Documents), res.Fingerprint, time.Since(start).Truncate(time.Millisecond))
	return res, nil
}

// writeResult writes res to the configured file, or to stdout.
func writeResult(stdout io.Writer, out config.Output, res *etl.Result) error {
	if out.Path == "" || out.Path == "-" {
		return export.Write(stdout, res, out.Format)
	}
	return export.WriteFile(out.Path, res, out.Format)
}
