package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// dumpWatcher re-runs an extraction when the dump file changes.
//
// The parent directory is watched rather than the file: dump tools and
// editors often replace the file by rename, which drops a file watch.
type dumpWatcher struct {
	w      *fsnotify.Watcher
	target string
}

func newDumpWatcher(path string) (*dumpWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &dumpWatcher{w: w, target: abs}, nil
}

func (d *dumpWatcher) Close() error { return d.w.Close() }

// Run calls fn once per burst of changes to the target, after the burst has
// been quiet for debounce. Errors from fn are logged; Run returns when ctx is
// done.
func (d *dumpWatcher) Run(ctx context.Context, log *zap.SugaredLogger, debounce time.Duration, fn func(context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-d.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != d.target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debugf("watch: event=%s", ev)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-d.w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch: %v", err)

		case <-fire:
			fire = nil
			log.Infof("watch: %s changed, re-running", d.target)
			if err := fn(ctx); err != nil {
				log.Errorf("watch: run failed: %v", err)
			}
		}
	}
}
