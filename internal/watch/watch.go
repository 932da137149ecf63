// Package watch monitors an input directory for newly dropped or rewritten
// PDF scans. Events are debounced so a bulk copy of many files triggers one
// callback with the whole batch instead of one per file.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback fires. Scanner batches and network copies arrive in bursts.
const DefaultDebounce = 2 * time.Second

// Watcher watches a single input directory for PDF changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer

	stopOnce sync.Once
}

// New creates a watcher over dir. A non-positive debounce uses
// DefaultDebounce.
func New(dir string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		debounce: debounce,
		log:      log,
		pending:  make(map[string]struct{}),
	}, nil
}

// Run delivers batches of changed PDF paths to callback until ctx is
// cancelled. The callback runs on the watch goroutine, so a long conversion
// naturally holds back the next batch while events keep accumulating.
func (w *Watcher) Run(ctx context.Context, callback func(files []string)) {
	fired := make(chan struct{}, 1)
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.resetTimerLocked(fired)
			w.mu.Unlock()

		case <-fired:
			if files := w.drain(); len(files) > 0 {
				callback(files)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch: filesystem event error", "error", err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}

// relevant keeps writes and creations of PDF files, skipping the sibling
// output directories and dotfiles.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// drain returns and clears the accumulated file set, sorted.
func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(files)
	return files
}

func (w *Watcher) resetTimerLocked(fired chan struct{}) {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
