package app

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/veil/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to a single file on disk. It watches the
// file's directory so saves that replace the file by rename are seen too.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	delay   time.Duration
	notify  func()

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewFileWatcher starts watching path. notify runs on a timer goroutine once
// a burst of events has been quiet for delay.
func NewFileWatcher(path string, delay time.Duration, notify func()) (*FileWatcher, error) {
	if notify == nil {
		return nil, errors.New("file watcher needs a notify func")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		watcher: fsw,
		path:    absPath,
		delay:   delay,
		notify:  notify,
		closeCh: make(chan struct{}),
	}
	w.closedWg.Add(1)
	go w.processLoop()
	logger.DebugTagf("watch", "Watching %s", absPath)
	return w, nil
}

func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				logger.DebugTagf("watch", "%s: %s", ev.Op, ev.Name)
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("FileWatcher: %v", err)
		}
	}
}

// schedule (re)arms the notify timer.
func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.notify()
		}
	})
}

// Close stops the watcher. It is safe to call more than once.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.closeCh)
	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}
