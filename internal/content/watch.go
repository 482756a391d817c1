package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gustafedn/atelier/internal/jobs"
)

// Watcher invalidates cached fragments when markdown files change on disk.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	metrics *jobs.Metrics
}

// NewWatcher creates a Watcher over the loader's content root, including
// subdirectories that already exist.
func NewWatcher(loader *Loader, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	err = filepath.WalkDir(loader.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch content root: %w", err)
	}

	return &Watcher{loader: loader, watcher: fw, logger: logger}, nil
}

// SetMetrics attaches background-task metrics. Call before Run.
func (w *Watcher) SetMetrics(m *jobs.Metrics) {
	w.metrics = m
}

// Run blocks processing filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("failed to close file watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
			if w.metrics != nil {
				w.metrics.IncJobErrors(jobs.JobTypeContentReload, "watch_failed")
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	// New subdirectories are not watched automatically.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	section, ok := w.sectionFor(event.Name)
	if !ok {
		return
	}
	w.logger.Info("content changed, invalidating cache", "section", section, "op", event.Op.String())
	w.loader.Invalidate(section)
	if w.metrics != nil {
		w.metrics.IncJobsTotal(jobs.JobTypeContentReload, jobs.StatusSuccess)
	}
}

// sectionFor maps a filesystem path back to the cache key it renders
// under. Markdown files cache under their bare section path, HTML
// partials under the path with extension.
func (w *Watcher) sectionFor(name string) (string, bool) {
	rel, err := filepath.Rel(w.loader.dir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if section, ok := strings.CutSuffix(rel, ".md"); ok {
		return section, true
	}
	if strings.HasSuffix(rel, ".html") {
		return rel, true
	}
	return "", false
}
