package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 200 * time.Millisecond

// Watcher keeps the index current while posts are edited on disk. Events
// are debounced per path.
type Watcher struct {
	indexer  *Indexer
	watcher  *fsnotify.Watcher
	root     string
	logger   *log.Logger
	debounce map[string]*time.Timer
	mu       sync.Mutex
	closed   bool
	onChange func()          // called after the index changes
	onError  func(err error) // called once when watching fails
}

func NewWatcher(indexer *Indexer, root string, logger *log.Logger, onChange func(), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		indexer:  indexer,
		watcher:  fw,
		root:     root,
		logger:   logger.WithPrefix("watch"),
		debounce: make(map[string]*time.Timer),
		onChange: onChange,
		onError:  onError,
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			return nil, fmt.Errorf("watch %s: %w (close: %v)", root, err, closeErr)
		}
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	return w, nil
}

// Start processes events until Stop or a watch error.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.fatal(err)
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	if strings.HasSuffix(path, ".md") {
		w.schedule(path, func() error { return w.sync(path) })
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("cannot watch directory", "path", path, "err", err)
			}
			// Posts moved in along with the directory.
			w.schedule(w.root, w.indexer.IndexAll)
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// Possibly a directory of posts; IndexAll prunes what is gone.
		w.schedule(w.root, w.indexer.IndexAll)
	}
}

// sync brings one post file's index entry in line with the disk.
func (w *Watcher) sync(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return w.indexer.RemoveFile(path)
	}
	return w.indexer.IndexFile(path)
}

// schedule runs fn once key has been quiet for debounceDelay.
func (w *Watcher) schedule(key string, fn func() error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
	}
	w.debounce[key] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounce, key)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}

		if err := fn(); err != nil {
			w.logger.Warn("reindex failed", "path", key, "err", err)
			return
		}
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// fatal stops the watcher and reports err through onError. Only the first
// failure is reported.
func (w *Watcher) fatal(err error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	onError := w.onError
	w.mu.Unlock()

	w.logger.Error("watcher failed", "err", err)
	if stopErr := w.Stop(); stopErr != nil {
		w.logger.Debug("stop after failure", "err", stopErr)
	}
	if onError != nil {
		onError(err)
	}
}

// Stop stops the watcher and cancels pending re-indexes.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
