package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gallerymig/internal/config"
	"gallerymig/internal/datasource"
	"gallerymig/internal/parser/sqldump"
)

func newInspectCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the tables of a dump with statement and record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ro.prepare(cmd, nil)
			if err != nil {
				return err
			}
			src, err := datasource.FromConfig(p.Source)
			if err != nil {
				return err
			}
			rc, err := src.Open(cmd.Context())
			if err != nil {
				return err
			}
			b, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return fmt.Errorf("read dump: %w", err)
			}

			dump := sqldump.ParseDump(string(b))
			return writeInspect(cmd.OutOrStdout(), dump, p.Tables.WithDefaults())
		},
	}
}

// writeInspect prints one row per table found in the dump and marks the
// tables the pipeline reads.
func writeInspect(w io.Writer, dump *sqldump.Dump, tables config.Tables) error {
	used := map[string]string{
		tables.Galleries:    config.ShapeGallery,
		tables.Assets:       config.ShapeAsset,
		tables.Associations: config.ShapeAssociation,
		tables.Documents:    config.ShapeDocument,
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tSHAPE\tSTATEMENTS\tRECORDS\tMALFORMED")
	for _, name := range dump.Tables() {
		_, st := dump.Records(name)
		shape := used[name]
		if shape == "" {
			shape = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", name, shape, st.Statements, st.Records, st.Malformed)
	}
	return tw.Flush()
}
