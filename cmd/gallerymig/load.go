package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gallerymig/internal/config"
	"gallerymig/internal/storage"
)

// openRepository is a test seam over storage.New.
var openRepository = storage.New

type loadOptions struct {
	extract    extractOptions
	kind       string
	dsn        string
	prefix     string
	batchSize  int
	autoCreate bool
	replace    bool
}

func newLoadCmd(ro *rootOptions) *cobra.Command {
	var lo loadOptions

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Extract a dump and load the records into a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ro.prepare(cmd, lo.apply)
			if err != nil {
				return err
			}
			if p.Storage.Kind == "" {
				return fmt.Errorf("storage kind is not set (use --storage or storage.kind); available: %v", storage.ListKinds())
			}
			ctx := cmd.Context()

			res, err := extract(ctx, ro, p)
			if err != nil {
				return err
			}
			if p.Output.Path != "" {
				if err := writeResult(cmd.OutOrStdout(), p.Output, res); err != nil {
					return err
				}
			}

			repo, err := openRepository(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
			if err != nil {
				return fmt.Errorf("open %s: %w", p.Storage.Kind, err)
			}
			defer repo.Close()

			db := p.Storage.DB
			st, err := storage.Load(ctx, repo, storage.LoadOptions{
				Job:        p.Job,
				Kind:       p.Storage.Kind,
				Schema:     storage.Schema{Prefix: db.TablePrefix},
				BatchSize:  db.BatchSize,
				AutoCreate: db.AutoCreateTable,
				Replace:    db.Replace,
				Logger:     ro.log,
			}, storage.Snapshot{
				RunID:     res.RunID,
				Galleries: res.Galleries,
				Documents: res.Documents,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded: kind=%s galleries=%d assets=%d documents=%d batches=%d run_id=%s\n",
				p.Storage.Kind, st.Galleries, st.Assets, st.Documents, st.Batches, res.RunID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&lo.extract.out, "out", "o", "", "also write the records to this file")
	f.StringVar(&lo.extract.format, "format", "", "output format for --out: json or yaml")
	f.StringVar(&lo.extract.originals, "originals", "", "originals tree to resolve asset files against")
	f.BoolVar(&lo.extract.publishedOnly, "published-only", false, "drop unpublished text documents")
	f.StringVar(&lo.kind, "storage", "", "storage kind: sqlite, postgres, mysql or mssql")
	f.StringVar(&lo.dsn, "dsn", "", "database DSN (env "+envDSN+")")
	f.StringVar(&lo.prefix, "table-prefix", "", "prefix for destination table names")
	f.IntVar(&lo.batchSize, "batch-size", 0, "rows per bulk insert")
	f.BoolVar(&lo.autoCreate, "create", false, "create destination tables when missing")
	f.BoolVar(&lo.replace, "replace", false, "delete existing rows before loading")
	return cmd
}

// apply layers the load flags over the pipeline.
func (lo *loadOptions) apply(p *config.Pipeline) {
	lo.extract.apply(p)
	p.Storage.Kind = pick(lo.kind, p.Storage.Kind)
	p.Storage.DB.DSN = pick(lo.dsn, os.Getenv(envDSN), p.Storage.DB.DSN)
	p.Storage.DB.TablePrefix = pick(lo.prefix, p.Storage.DB.TablePrefix)
	if lo.batchSize > 0 {
		p.Storage.DB.BatchSize = lo.batchSize
	}
	if lo.autoCreate {
		p.Storage.DB.AutoCreateTable = true
	}
	if lo.replace {
		p.Storage.DB.Replace = true
	}
}
