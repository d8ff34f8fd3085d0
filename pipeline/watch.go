package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/decl2ts/discover/manifest"
	"github.com/teranos/decl2ts/errors"
)

// RunCallback receives the outcome of each regeneration
type RunCallback func(*Report, error)

// Watch runs the pipeline once, then again whenever a watched source
// changes, until ctx is cancelled. Rapid changes are debounced into one run.
// Run failures go to onRun and do not stop watching. Watch returns only after
// any run in progress has finished.
func (p *Pipeline) Watch(ctx context.Context, onRun RunCallback) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	for _, dir := range p.watchDirs() {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		p.log.Debugw("Watching directory", "path", dir)
	}

	var (
		mu      sync.Mutex
		stopped bool
	)
	run := func() {
		// One run at a time; a change during a run schedules the next
		mu.Lock()
		defer mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		report, err := p.Run(ctx)
		if onRun != nil {
			onRun(report, err)
		}
	}
	run()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		// Wait for an in-flight run and keep pending timers from starting another
		mu.Lock()
		stopped = true
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// New directories under a watched tree are picked up
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !p.skipDir(event.Name) {
					if err := watcher.Add(event.Name); err != nil {
						p.log.Warnw("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			if !p.relevant(event) {
				continue
			}
			p.log.Debugw("Source changed", "path", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(p.opts.Debounce, run)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.Warnw("Watcher error", "error", err)
		}
	}
}

func (p *Pipeline) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if p.insideOutput(event.Name) {
		return false
	}
	name := event.Name
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") || manifest.IsManifestPath(name)
}

// watchDirs lists the directories to watch: the manifest directories and,
// when any Go pattern is present, every source directory under Dir.
func (p *Pipeline) watchDirs() []string {
	root := p.opts.Dir
	if root == "" {
		root = "."
	}

	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	scanGo := len(p.opts.Patterns) == 0
	for _, pattern := range p.opts.Patterns {
		if manifest.IsManifestPath(pattern) {
			path := pattern
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			add(filepath.Dir(path))
			continue
		}
		scanGo = true
	}

	if scanGo {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != root && p.skipDir(path) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
	}
	return dirs
}

// skipDir excludes hidden, vendor, testdata and output directories
func (p *Pipeline) skipDir(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata" || base == "node_modules" {
		return true
	}
	return p.insideOutput(path)
}

func (p *Pipeline) insideOutput(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(p.artifact.Dir(), abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
