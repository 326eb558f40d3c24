// Package watch re-runs an action when pattern files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDelay is how long a file must be quiet before it is reported.
const DefaultDelay = 200 * time.Millisecond

// Watcher reports content changes of a fixed set of files.
type Watcher struct {
	delay  time.Duration
	logger hclog.Logger
}

// New creates a Watcher. A non-positive delay selects DefaultDelay.
func New(delay time.Duration, logger hclog.Logger) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Watcher{delay: delay, logger: logger.Named("watch")}
}

// Run watches files until ctx is done, calling fn with the path of each
// file whose content changed. Parent directories are watched so that
// editors replacing files atomically are seen. Events are debounced per
// file and a save that leaves the content unchanged is ignored. fn runs on
// the calling goroutine.
func (w *Watcher) Run(ctx context.Context, files []string, fn func(path string)) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	hashes := make(map[string]uint64, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		hashes[abs], _ = hashFile(abs)
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	w.logger.Info("watching files", "files", len(hashes), "dirs", len(dirs))

	pending := make(chan string, len(hashes))
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, tracked := hashes[event.Name]; !tracked {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			name := event.Name
			mu.Lock()
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(w.delay, func() {
				select {
				case pending <- name:
				default:
				}
			})
			mu.Unlock()

		case name := <-pending:
			sum, err := hashFile(name)
			if err != nil {
				w.logger.Debug("file not readable yet", "path", name, "error", err)
				continue
			}
			if sum == hashes[name] {
				w.logger.Debug("content unchanged", "path", name)
				continue
			}
			hashes[name] = sum
			w.logger.Debug("file changed", "path", name)
			fn(name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func hashFile(path string) (uint64, error) {
	data, err := os.ReadFile(path) // #nosec G304 - watched pattern files are chosen by the user
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
