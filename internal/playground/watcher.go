package playground

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/radovskyb/watcher"

	"github.com/inkpad/playground/internal/observability"
)

// DefaultWatchInterval is the polling interval of the source file watcher.
const DefaultWatchInterval = 500 * time.Millisecond

// FileChangedMsg reports that the watched source file changed on disk.
type FileChangedMsg struct {
	Path string
}

// WatcherManager polls one file and turns its changes into tea messages.
type WatcherManager struct {
	path    string
	watcher *watcher.Watcher
	logger  *observability.CoreLogger

	// msgs carries at most one pending change; further changes coalesce.
	msgs chan tea.Msg

	forwardDone chan struct{}
	startDone   chan struct{}
	finishOnce  sync.Once
}

// NewWatcherManager starts watching path.
func NewWatcherManager(
	path string,
	interval time.Duration,
	logger *observability.CoreLogger,
) (*WatcherManager, error) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create)
	if err := w.Add(path); err != nil {
		return nil, fmt.Errorf("watcher: add %s: %w", path, err)
	}

	wm := &WatcherManager{
		path:        path,
		watcher:     w,
		logger:      logger,
		msgs:        make(chan tea.Msg, 1),
		forwardDone: make(chan struct{}),
		startDone:   make(chan struct{}),
	}

	go wm.forward()
	go func() {
		defer close(wm.startDone)
		if err := w.Start(interval); err != nil {
			logger.CaptureError(fmt.Errorf("watcher: %w", err))
		}
	}()
	// Close is a no-op until the watcher is running.
	w.Wait()

	logger.Debug("watcher: started", "path", path, "interval", interval)
	return wm, nil
}

// WaitForMsg blocks until the file changes. It returns nil once the
// manager is finished.
func (wm *WatcherManager) WaitForMsg() tea.Msg {
	msg, ok := <-wm.msgs
	if !ok {
		return nil
	}
	return msg
}

// Finish stops watching and waits for the polling loop and the forwarder
// to return. It is safe to call repeatedly.
//
// watcher.Close leaves the library's last poll goroutine blocked on an
// unread channel; it holds no file handles and is not waited for.
func (wm *WatcherManager) Finish() {
	wm.finishOnce.Do(func() {
		wm.watcher.Close()
		<-wm.startDone
		<-wm.forwardDone
		wm.logger.Debug("watcher: stopped", "path", wm.path)
	})
}

func (wm *WatcherManager) forward() {
	defer close(wm.forwardDone)
	defer close(wm.msgs)

	for {
		select {
		case <-wm.watcher.Event:
			select {
			case wm.msgs <- FileChangedMsg{Path: wm.path}:
			default:
				// A change is already pending.
			}
		case err := <-wm.watcher.Error:
			wm.logger.CaptureError(fmt.Errorf("watcher: %w", err), "path", wm.path)
		case <-wm.watcher.Closed:
			return
		}
	}
}
