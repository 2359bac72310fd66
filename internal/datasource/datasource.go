// Package datasource abstracts where the dump text is read from.
package datasource

import (
	"context"
	"fmt"
	"io"
	"time"

	"gallerymig/internal/config"
	"gallerymig/internal/datasource/file"
	"gallerymig/internal/datasource/httpds"
)

// Source opens the dump for reading. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FromConfig builds the Source selected by cfg.Kind.
func FromConfig(cfg config.Source) (Source, error) {
	switch cfg.Kind {
	case "file":
		if cfg.File.Path == "" {
			return nil, fmt.Errorf("file source: path is empty")
		}
		return file.NewLocal(cfg.File.Path), nil
	case "http":
		if cfg.HTTP.URL == "" {
			return nil, fmt.Errorf("http source: url is empty")
		}
		c := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries:         cfg.HTTP.MaxRetries,
			InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify,
		})
		return httpds.NewSource(c, cfg.HTTP.URL), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
