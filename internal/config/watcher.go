package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/token-usage-tui/internal/logger"
)

// DefaultDebounceInterval collapses the burst of events editors emit on save.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher reloads the configuration whenever its .env file changes.
type Watcher struct {
	mu            sync.Mutex
	path          string
	watcher       *fsnotify.Watcher
	onChange      func(*Config)
	onError       func(error)
	debounce      time.Duration
	debounceTimer *time.Timer
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWatcher starts watching envFile. onChange receives every successfully
// reloaded configuration; onError receives reload and watcher failures.
func NewWatcher(envFile string, onChange func(*Config), onError func(error)) (*Watcher, error) {
	if envFile == "" {
		return nil, fmt.Errorf("no .env file to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     envFile,
		watcher:  fw,
		onChange: onChange,
		onError:  onError,
		debounce: DefaultDebounceInterval,
		stopChan: make(chan struct{}),
	}

	// Watch the directory so atomic-rename saves are seen.
	if err := fw.Add(filepath.Dir(envFile)); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	go w.watchLoop()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(w.debounce, w.handleFileChange)
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleFileChange() {
	cfg, err := Reload(w.path)
	if err != nil {
		w.reportError(err)
		return
	}
	logger.Info("configuration reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	logger.Warn("config watcher error", "path", w.path, "error", err)
	if w.onError != nil {
		w.onError(err)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}
