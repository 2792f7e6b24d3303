package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor or copy produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher invalidates a FileSource as soon as one of its export files changes
// on disk and then reloads it, so the next reader finds a warm snapshot.
//
// Without a Watcher the FileSource still notices changes on the next read;
// the Watcher only moves the rebuild off the request path.
type Watcher struct {
	src      *FileSource
	fw       *fsnotify.Watcher
	debounce time.Duration
	names    map[string]bool

	mu      sync.Mutex
	reloads int

	// afterReload runs after each debounced reload. Tests hook it.
	afterReload func()
}

// NewWatcher watches every existing candidate directory of src. Directories
// that do not exist are skipped; at least one must exist.
func NewWatcher(src *FileSource, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	cfg := src.Config()
	w := &Watcher{
		src:      src,
		fw:       fw,
		debounce: debounce,
		names: map[string]bool{
			filepath.Base(cfg.HeaderFile):   true,
			filepath.Base(cfg.MaterialFile): true,
		},
	}

	for _, dir := range watchDirs(cfg) {
		if err := fw.Add(dir); err != nil {
			slog.Warn("source watch skipped", "dir", dir, "error", err)
			continue
		}
		slog.Debug("source watch added", "dir", dir)
	}
	if len(fw.WatchList()) == 0 {
		fw.Close()
		return nil, fmt.Errorf("create watcher: none of %v exists", cfg.Dirs)
	}

	return w, nil
}

// watchDirs lists the directories holding the export files. Absolute file
// names contribute their own directory.
func watchDirs(cfg Config) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if seen[dir] {
			return
		}
		seen[dir] = true
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}

	for _, name := range []string{cfg.HeaderFile, cfg.MaterialFile} {
		if filepath.IsAbs(name) {
			add(filepath.Dir(name))
		}
	}
	for _, dir := range cfg.Dirs {
		add(dir)
	}
	return dirs
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("source file event", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("source watcher error", "error", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

// Reloads returns how many debounced reloads have run.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.names[filepath.Base(event.Name)] {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) != 0
}

func (w *Watcher) reload(ctx context.Context) {
	w.src.Invalidate()

	if snap, err := w.src.Snapshot(ctx); err != nil {
		slog.Warn("source reload failed", "error", err)
	} else {
		slog.Info("source reloaded", "snapshot_id", snap.ID)
	}

	w.mu.Lock()
	w.reloads++
	hook := w.afterReload
	w.mu.Unlock()

	if hook != nil {
		hook()
	}
}
