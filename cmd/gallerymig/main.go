// Command gallerymig extracts galleries, assets and text pages from a legacy
// gallery CMS database dump and hands them to a static-site emitter as JSON
// or YAML, or loads them into a relational database.
//
// Usage:
//
//	gallerymig extract --dump backup.sql --out content/records.yaml
//	gallerymig extract -c pipeline.yaml --watch
//	gallerymig load -c pipeline.yaml --storage sqlite --dsn file:site.db
//	gallerymig inspect --dump backup.sql.gz
//	gallerymig validate -c pipeline.yaml
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
