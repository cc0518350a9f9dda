package tui

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchStore calls onChange (debounced) whenever path, or its SQLite -wal file,
// is written. The returned func stops watching.
func watchStore(path string, onChange func(), logger *zap.Logger) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		const debounce = 150 * time.Millisecond
		var timer *time.Timer
		for {
			select {
			case <-done:
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !relevantEvent(ev, base) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, onChange)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Debug("store watcher error", zap.Error(err))
			}
		}
	}()

	return func() {
		close(done)
		_ = w.Close()
	}, nil
}

// relevantEvent reports writes by another process. Opening and closing a
// SQLite database in WAL mode creates and removes the -wal and -shm files even
// for reads, so only real writes to the data file or its -wal count. Create
// and Rename on the data file cover the file backend's rename-into-place.
func relevantEvent(ev fsnotify.Event, base string) bool {
	switch filepath.Base(ev.Name) {
	case base:
		return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
	case base + "-wal":
		return ev.Has(fsnotify.Write)
	default:
		return false
	}
}
