package config

// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "layout.columns.gallery"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity `json:"severity" yaml:"severity"`
	Path     string        `json:"path" yaml:"path"`
	Message  string        `json:"message" yaml:"message"`
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
//
// Example:
//
//	p, err := config.Load("pipeline.yaml")
//	if err != nil { ... }
//	for _, iss := range config.ValidatePipeline(p) {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateTables(p.Tables)...)
	issues = append(issues, validateLayout(p.Layout)...)
	issues = append(issues, validateOutput(p.Output)...)
	issues = append(issues, validateStorage(p.Storage)...)

	return issues
}

// validateSource validates Source configuration.
func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
		return issues
	}

	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "http":
		u := strings.TrimSpace(s.HTTP.URL)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.url",
				Message:  "http source requires an http:// or https:// url",
			})
		}
		if s.HTTP.MaxRetries < 0 || s.HTTP.TimeoutSeconds < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http",
				Message:  "timeout_seconds and max_retries must not be negative",
			})
		}
		if s.HTTP.InsecureSkipVerify {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.http.insecure_skip_verify",
				Message:  "TLS verification is disabled for the dump download",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; supported: file, http", s.Kind),
		})
	}

	return issues
}

// validateTables warns when two shapes are read from the same table; that is
// almost always a copy/paste mistake in the config.
func validateTables(t Tables) []Issue {
	var issues []Issue

	t = t.WithDefaults()
	seen := map[string]string{}
	for _, e := range []struct{ path, name string }{
		{"tables.galleries", t.Galleries},
		{"tables.assets", t.Assets},
		{"tables.associations", t.Associations},
		{"tables.documents", t.Documents},
	} {
		if prev, ok := seen[e.name]; ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     e.path,
				Message:  fmt.Sprintf("table %q is also used by %s", e.name, prev),
			})
			continue
		}
		seen[e.name] = e.path
	}

	return issues
}

// validateLayout checks that the layout version exists and that column
// overrides name real columns.
func validateLayout(l LayoutConfig) []Issue {
	if _, err := ResolveLayout(l); err != nil {
		return []Issue{{
			Severity: SeverityError,
			Path:     "layout",
			Message:  err.Error(),
		}}
	}
	return nil
}

// validateOutput validates the export format.
func validateOutput(o Output) []Issue {
	switch strings.ToLower(o.Format) {
	case "", "json", "yaml", "yml":
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Path:     "output.format",
		Message:  fmt.Sprintf("unknown output format %q; supported: json, yaml", o.Format),
	}}
}

// validateStorage validates storage configuration and DB settings. An empty
// kind disables loading and is not an issue.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}

	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	db := s.DB
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if db.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	if strings.ContainsAny(db.TablePrefix, " ;'\"`") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table_prefix",
			Message:  fmt.Sprintf("table_prefix %q contains characters that are not allowed in identifiers", db.TablePrefix),
		})
	}

	return issues
}
