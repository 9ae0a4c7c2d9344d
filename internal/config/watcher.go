package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DataWatcher monitors the file-backed data directory and reports
// which storage key another writer just rewrote. Storage is
// last-write-wins at whole-collection granularity, so the only
// recovery from an external write is to reload the collection.
type DataWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange func(key string)
	stopChan chan struct{}
}

// NewDataWatcher watches dir and calls onChange with the storage key
// of every settled external write.
func NewDataWatcher(dir string, onChange func(key string)) (*DataWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	return &DataWatcher{
		dir:      dir,
		watcher:  watcher,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}, nil
}

// Start runs the watch loop until Stop is called. Rapid event bursts
// for the same key are debounced.
func (w *DataWatcher) Start() {
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".tmp") {
				continue
			}
			pending[strings.TrimSuffix(name, ".json")] = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Data watcher error")

		case now := <-ticker.C:
			for key, at := range pending {
				if now.Sub(at) >= 200*time.Millisecond {
					delete(pending, key)
					log.Debug().Str("key", key).Msg("External write detected, reloading")
					w.onChange(key)
				}
			}

		case <-w.stopChan:
			return
		}
	}
}

// Stop ends the watch loop and releases the notifier.
func (w *DataWatcher) Stop() {
	close(w.stopChan)
	w.watcher.Close()
}
