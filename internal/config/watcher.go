package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("config: watcher closed")

// debounceWindow coalesces the write bursts editors produce when
// saving a file.
const debounceWindow = 100 * time.Millisecond

// Watcher reloads a settings file when it changes on disk and applies
// the result through a Notifier. Invalid file contents are ignored; the
// last good settings stay in effect.
type Watcher struct {
	mu sync.Mutex

	path     string
	notifier *Notifier
	fsw      *fsnotify.Watcher

	debounce *time.Timer
	closed   bool
	done     chan struct{}
}

// NewWatcher starts watching the settings file's directory. Watching
// the directory rather than the file survives rename-based saves.
func NewWatcher(path string, notifier *Notifier) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		notifier: notifier,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops watching. Required teardown: a closed view must never
// trigger reloads.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

// loop consumes fsnotify events until the watcher closes.
func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still arrives
			// or the watcher is closing.
		}
	}
}

// relevant filters events down to writes/creates/renames of the
// settings file itself.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Name != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// scheduleReload debounces a reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceWindow, w.reload)
}

// reload reads the file and applies it. Load already falls back to the
// current defaults on parse/validation failure, but a failed read
// should not clobber live settings, so errors drop the reload entirely.
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	path := w.path
	notifier := w.notifier
	w.mu.Unlock()

	cfg, err := Load(path)
	if err != nil {
		return
	}
	_ = notifier.Apply(cfg, "file")
}
