// Package watch reports writes to a set of files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a burst of writes is collected before the
// callback runs.
const DefaultDelay = 100 * time.Millisecond

// Watcher watches files through their directories, so that editors that
// replace a file on save are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	delay   time.Duration
	logger  *zap.Logger
}

// New watches files. Call Run to receive changes.
func New(logger *zap.Logger, delay time.Duration, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		files:   make(map[string]struct{}, len(files)),
		delay:   delay,
		logger:  logger,
	}
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return w, nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// Run calls fn with every watched file written since the previous call,
// once writes have been quiet for the delay. It returns ctx.Err() when
// ctx ends and closes the watcher in every case.
func (w *Watcher) Run(ctx context.Context, fn func(name string)) error {
	defer w.watcher.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			abs, _ := filepath.Abs(event.Name)
			pending[abs] = struct{}{}
			timer.Reset(w.delay)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			sort.Strings(names)
			for k := range pending {
				delete(pending, k)
			}
			for _, name := range names {
				fn(name)
			}
		}
	}
}
