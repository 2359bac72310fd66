// Package originals indexes the legacy CMS's originals tree so asset
// entries can be annotated with the file they were uploaded as.
//
// The tree is sharded two levels deep, <root>/<d1>/<d2>/<filename>. Some
// uploads only survive as the 1600px rendition, <base>.1600<ext>, which is
// used when the original is missing.
package originals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

const resizedMarker = ".1600"

// Locator resolves asset filenames to paths under the originals root.
type Locator struct {
	root    string
	exact   map[string]string
	resized map[string]string
}

type shard struct {
	exact   map[string]string
	resized map[string]string
}

// Index walks root once. Shards are read concurrently, at most workers at
// a time (workers <= 0 means 8). When a filename occurs in several shards
// the lexically first path wins.
func Index(ctx context.Context, root string, workers int) (*Locator, error) {
	if workers <= 0 {
		workers = 8
	}
	top, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read originals root: %w", err)
	}

	shards := make([]shard, len(top))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d1 := range top {
		if !d1.IsDir() {
			continue
		}
		i, dir := i, filepath.Join(root, d1.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := indexShard(dir)
			if err != nil {
				return err
			}
			shards[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l := &Locator{root: root, exact: map[string]string{}, resized: map[string]string{}}
	for _, s := range shards {
		for name, p := range s.exact {
			if _, ok := l.exact[name]; !ok {
				l.exact[name] = p
			}
		}
		for name, p := range s.resized {
			if _, ok := l.resized[name]; !ok {
				l.resized[name] = p
			}
		}
	}
	return l, nil
}

// indexShard reads <dir>/<d2>/* . Entries come back sorted from ReadDir, so
// the first hit per name is also the lexically first path in the shard.
func indexShard(dir string) (shard, error) {
	s := shard{exact: map[string]string{}, resized: map[string]string{}}
	subs, err := os.ReadDir(dir)
	if err != nil {
		return s, fmt.Errorf("read shard %s: %w", dir, err)
	}
	for _, d2 := range subs {
		if !d2.IsDir() {
			continue
		}
		sub := filepath.Join(dir, d2.Name())
		files, err := os.ReadDir(sub)
		if err != nil {
			return s, fmt.Errorf("read shard %s: %w", sub, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			name := f.Name()
			p := filepath.Join(sub, name)
			if _, ok := s.exact[name]; !ok {
				s.exact[name] = p
			}
			if orig, ok := originalName(name); ok {
				if _, seen := s.resized[orig]; !seen {
					s.resized[orig] = p
				}
			}
		}
	}
	return s, nil
}

// originalName maps "photo.1600.jpg" back to "photo.jpg".
func originalName(name string) (string, bool) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if !strings.HasSuffix(base, resizedMarker) {
		return "", false
	}
	return strings.TrimSuffix(base, resizedMarker) + ext, true
}

// Find returns the path of filename, preferring the original upload over
// the 1600px rendition.
func (l *Locator) Find(filename string) (string, bool) {
	if l == nil || filename == "" {
		return "", false
	}
	if p, ok := l.exact[filename]; ok {
		return p, true
	}
	p, ok := l.resized[filename]
	return p, ok
}

// Len is the number of distinct original filenames indexed.
func (l *Locator) Len() int { return len(l.exact) }

// Root returns the indexed directory.
func (l *Locator) Root() string { return l.root }
