// Package watch re-runs generation when the schema files of a version change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long the watcher waits for a burst of edits to settle.
const DefaultDelay = 200 * time.Millisecond

// ChangeFunc receives the versions whose schema directory changed, in name order.
type ChangeFunc func(ctx context.Context, versions []string) error

// Watcher monitors schema directories and reports changed versions.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	dirs      map[string][]string // cleaned dir -> version names
	onChange  ChangeFunc
	logger    *zap.Logger
}

// New creates a watcher for dirs, a map of version name to schema directory.
func New(dirs map[string]string, delay time.Duration, onChange ChangeFunc, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:   fw,
		debouncer: NewDebouncer(delay),
		dirs:      make(map[string][]string, len(dirs)),
		onChange:  onChange,
		logger:    logger,
	}
	for version, dir := range dirs {
		clean := filepath.Clean(dir)
		w.dirs[clean] = append(w.dirs[clean], version)
	}
	return w, nil
}

// Run watches until ctx is done. Changes are debounced and handed to the
// ChangeFunc one batch at a time; a failing batch is logged and watching goes on.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger.Debug("watching schema directory", zap.String("dir", dir))
	}

	batches := make(chan []string, 1)
	w.debouncer.SetCallback(func(files []string) {
		select {
		case batches <- files:
		case <-ctx.Done():
		}
	})
	defer w.debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !IsSchemaFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debug("schema file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				w.debouncer.Add(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case files := <-batches:
			versions := w.versionsOf(files)
			if len(versions) == 0 {
				continue
			}
			if err := w.onChange(ctx, versions); err != nil {
				w.logger.Error("regeneration failed", zap.Strings("versions", versions), zap.Error(err))
			}
		}
	}
}

// versionsOf maps changed files to the versions owning their directory.
func (w *Watcher) versionsOf(files []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range files {
		for _, v := range w.dirs[filepath.Dir(filepath.Clean(f))] {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// IsSchemaFile reports whether path names a visible .xsd file.
func IsSchemaFile(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), ".xsd")
}

// Debouncer collects file changes and triggers callbacks after a delay
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a file and restarts the delay.
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush hands the accumulated files, sorted, to the callback.
func (d *Debouncer) flush() {
	d.mutex.Lock()
	if len(d.files) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	sort.Strings(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels a pending flush. Later Adds are ignored.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
