package etl

import (
	"fmt"
	"sync"

	"gallerymig/internal/assemble"
	"gallerymig/internal/parser/sqldump"
	"gallerymig/internal/transformer"
)

// TableReport is what happened to one record table.
type TableReport struct {
	Shape  string               `json:"shape" yaml:"shape"`
	Locate sqldump.LocateStats  `json:"locate" yaml:"locate"`
	Map    transformer.MapStats `json:"map" yaml:"map"`
}

// AssetReport counts asset entries matched against the originals tree.
type AssetReport struct {
	Resolved   int `json:"resolved" yaml:"resolved"`
	Unresolved int `json:"unresolved" yaml:"unresolved"`
}

// Diagnostics collects the per-stage counts of a run.
type Diagnostics struct {
	Tables   []TableReport  `json:"tables" yaml:"tables"`
	Assembly assemble.Stats `json:"assembly" yaml:"assembly"`
	Assets   *AssetReport   `json:"assets,omitempty" yaml:"assets,omitempty"`

	// Warnings is the total number of warnings; Samples holds the first few.
	Warnings int      `json:"warnings" yaml:"warnings"`
	Samples  []string `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Lines renders the diagnostics as log lines, one per table plus a summary.
func (d Diagnostics) Lines() []string {
	out := make([]string, 0, len(d.Tables)+len(d.Samples)+3)
	for _, t := range d.Tables {
		out = append(out, fmt.Sprintf(
			"table %s (%s): statements=%d records=%d malformed=%d mapped=%d dropped=%d",
			t.Locate.Table, t.Shape, t.Locate.Statements, t.Locate.Records, t.Locate.Malformed, t.Map.Mapped, t.Map.Dropped(),
		))
	}
	a := d.Assembly
	out = append(out, fmt.Sprintf(
		"summary: galleries=%d skipped=%d empty=%d assets=%d assets_missing=%d assets_unusable=%d warnings=%d",
		a.GalleriesEligible, a.GalleriesSkipped, a.GalleriesEmpty, a.AssetsMatched, a.AssetsMissing, a.AssetsUnusable, d.Warnings,
	))
	if d.Assets != nil {
		out = append(out, fmt.Sprintf("originals: resolved=%d unresolved=%d", d.Assets.Resolved, d.Assets.Unresolved))
	}
	if d.Warnings > 0 {
		out = append(out, fmt.Sprintf("warnings: %d (showing first %d)", d.Warnings, len(d.Samples)))
		for i, s := range d.Samples {
			out = append(out, fmt.Sprintf("  #%03d: %s", i+1, s))
		}
	}
	return out
}

// errAgg counts messages and keeps the first limit of them.
type errAgg struct {
	mu    sync.Mutex
	limit int
	count int
	first []string
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit}
}

func (a *errAgg) add(msg string) {
	a.mu.Lock()
	if a.count < a.limit {
		a.first = append(a.first, msg)
	}
	a.count++
	a.mu.Unlock()
}
