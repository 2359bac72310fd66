// Package export serializes a run result for the static-site content
// emitter. JSON and YAML carry the same document.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gallerymig/internal/etl"
)

// Formats understood by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Normalize maps "" to JSON and "yml" to YAML. Unknown formats are returned
// unchanged so Write can reject them.
func Normalize(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
		return FormatJSON
	case "yml":
		return FormatYAML
	default:
		return f
	}
}

// FormatFromPath picks a format from a file extension, falling back to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Write encodes res to w.
func Write(w io.Writer, res *etl.Result, format string) error {
	switch Normalize(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// WriteFile encodes res into path atomically: the output is written to a
// temporary file in the same directory and renamed into place, so a
// watcher re-run never leaves a half-written file behind.
func WriteFile(path string, res *etl.Result, format string) error {
	var buf bytes.Buffer
	if err := Write(&buf, res, format); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
