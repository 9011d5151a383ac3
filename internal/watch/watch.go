// Package watch implements the supplemented --watch mode of spec.md
// §3.5: reruns a comparison whenever either input file changes.
//
// Grounded on the teacher's internal/change.AutoTracker (an
// fsnotify.Watcher run on its own goroutine, logging through zap via a
// select over Events/Errors); simplified to watch two specific files
// rather than an entire tree, since subdiff always compares exactly
// two paths.
package watch

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"subdiff/internal/subdifferr"
)

// Watcher reruns a callback whenever either watched file is written or
// replaced.
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *zap.Logger
}

// New starts watching oldPath and newPath, invoking rerun on every
// write/create event to either one. fsnotify watches directories
// rather than bare files so that editors which replace a file via
// rename-into-place (rather than an in-place write) are still caught.
func New(oldPath, newPath string, logger *zap.Logger, rerun func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, subdifferr.Internalf("creating file watcher: %v", err)
	}

	dirs := map[string]bool{filepath.Dir(oldPath): true, filepath.Dir(newPath): true}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, subdifferr.IO("could not watch %s: %v", dir, err)
		}
	}

	w := &Watcher{fs: fw, logger: logger}
	go w.loop(oldPath, newPath, rerun)
	return w, nil
}

func (w *Watcher) loop(oldPath, newPath string, rerun func()) {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Name != oldPath && event.Name != newPath {
				continue
			}
			w.logger.Debug("watch-triggered rerun", zap.String("path", event.Name))
			rerun()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and releases its file descriptors.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
