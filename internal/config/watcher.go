package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchError represents an error encountered while watching the file.
type WatchError struct {
	Err   error
	Fatal bool
}

// Watcher sends the reloaded configuration whenever its file changes.
type Watcher struct {
	Errors  chan WatchError
	Updates chan Config

	file    string
	stopch  chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a Watcher for the configuration file at path.
func NewWatcher(path string) *Watcher {
	return &Watcher{
		Errors:  make(chan WatchError, 8),
		Updates: make(chan Config, 8),
		file:    filepath.Clean(path),
		stopch:  make(chan struct{}),
	}
}

// Watch spawns a goroutine which reloads the file on every write. The parent
// directory is watched so editors that replace the file are still seen.
func (w *Watcher) Watch() error {
	if w.watcher != nil {
		return errors.New("config watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.file)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.file), err)
	}
	w.watcher = watcher

	go func() {
		defer w.watcher.Close()
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					w.publishError(WatchError{Err: errors.New("watcher closed"), Fatal: true})
					return
				}
				if filepath.Clean(event.Name) != w.file {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(w.file)
				if err != nil {
					if !w.publishError(WatchError{Err: err}) {
						return
					}
					continue
				}
				if !w.publishUpdate(cfg) {
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !w.publishError(WatchError{Err: err, Fatal: !ok}) || !ok {
					return
				}
			case <-w.stopch:
				return
			}
		}
	}()
	return nil
}

// publishUpdate delivers cfg unless the watcher is stopped first. It reports
// whether the watcher is still running.
func (w *Watcher) publishUpdate(cfg Config) bool {
	select {
	case w.Updates <- cfg:
		return true
	case <-w.stopch:
		return false
	}
}

func (w *Watcher) publishError(werr WatchError) bool {
	select {
	case w.Errors <- werr:
		return true
	case <-w.stopch:
		return false
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopch)
}
