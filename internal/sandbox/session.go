package sandbox

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/inkpad/playground/internal/observability"
)

const (
	// eventQueueDepth bounds undelivered events before producers block.
	eventQueueDepth = 1024

	// closeGrace bounds how long Close waits for a cancelled run to return.
	closeGrace = time.Second
)

// Session is one logical execution of a set of files.
//
// Console messages and status changes are delivered to subscribers on a
// single dispatch goroutine, in the order they were produced. Callbacks
// must not call Close.
type Session struct {
	id      string
	tmpl    template
	opts    Options
	logger  *observability.CoreLogger
	onClose func(id string)

	mu          sync.Mutex
	files       map[string]string
	output      string
	status      Status
	started     bool
	closed      bool
	runCancel   context.CancelFunc
	reloadTimer *time.Timer

	// runSeq identifies the current run; messages of superseded runs
	// are dropped.
	runSeq atomic.Int64

	limiter *rate.Limiter

	subsMu      sync.Mutex
	nextSubID   int
	consoleSubs map[int]func(ConsoleMessage)
	statusSubs  map[int]func(Status)

	events       chan event
	done         chan struct{}
	dispatchDone chan struct{}
	runs         sync.WaitGroup
}

func newSession(
	id string,
	tmpl template,
	files map[string]string,
	opts Options,
	logger *observability.CoreLogger,
	onClose func(string),
) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:           id,
		tmpl:         tmpl,
		opts:         opts,
		logger:       logger.With("session", id),
		onClose:      onClose,
		files:        maps.Clone(files),
		limiter:      rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), opts.MessageBurst),
		consoleSubs:  make(map[int]func(ConsoleMessage)),
		statusSubs:   make(map[int]func(Status)),
		events:       make(chan event, eventQueueDepth),
		done:         make(chan struct{}),
		dispatchDone: make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// OnConsoleMessage registers cb for every console call made by running
// code. The returned function unsubscribes; it is safe to call repeatedly.
func (s *Session) OnConsoleMessage(cb func(ConsoleMessage)) func() {
	s.subsMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.consoleSubs[id] = cb
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.consoleSubs, id)
			s.subsMu.Unlock()
		})
	}
}

// OnStatus registers cb for run status changes.
func (s *Session) OnStatus(cb func(Status)) func() {
	s.subsMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.statusSubs[id] = cb
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.statusSubs, id)
			s.subsMu.Unlock()
		})
	}
}

// Start runs the code once if AutoRun is set. Subscribe before starting
// so that the first run's output is not missed.
func (s *Session) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	if s.opts.AutoRun {
		s.Run()
	}
}

// Status returns the status of the most recent run.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// File returns the current content of path.
func (s *Session) File(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[path]
}

// UpdateFile replaces the content of path. With AutoReload the session
// re-runs once no further edit arrives within RecompileDelay.
func (s *Session) UpdateFile(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.files[path] == content {
		return
	}
	s.files[path] = content

	if !s.opts.AutoReload {
		return
	}
	if s.reloadTimer != nil {
		s.reloadTimer.Stop()
	}
	s.reloadTimer = time.AfterFunc(s.opts.RecompileDelay, s.Run)
}

// Run executes the current files, superseding any run in progress.
func (s *Session) Run() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.runCancel != nil {
		s.runCancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RunTimeout)
	s.runCancel = cancel
	seq := s.runSeq.Add(1)
	files := maps.Clone(s.files)
	s.status = Status{State: RunStateRunning, Run: int(seq)}
	status := s.status
	s.runs.Add(1)
	s.mu.Unlock()

	s.logger.Debug("sandbox: run started", "run", seq)
	s.emit(event{status: &status})

	go s.execute(ctx, cancel, seq, files)
}

func (s *Session) execute(
	ctx context.Context,
	cancel context.CancelFunc,
	seq int64,
	files map[string]string,
) {
	defer s.runs.Done()
	defer cancel()

	var suppressed atomic.Int64
	start := time.Now()
	res := s.tmpl.run(ctx, files, func(msg ConsoleMessage) {
		s.emitConsole(seq, msg, &suppressed)
	})
	elapsed := time.Since(start)

	if res.err != nil {
		// Execution errors reach the console like any other error output.
		s.emitConsole(seq, ConsoleMessage{Method: "error", Args: []any{res.err.Error()}}, &suppressed)
	}
	if n := suppressed.Load(); n > 0 && seq == s.runSeq.Load() {
		s.emit(event{console: &ConsoleMessage{
			Method: "warn",
			Args:   []any{fmt.Sprintf("%d console messages suppressed", n)},
		}})
	}

	s.mu.Lock()
	if s.closed || seq != s.runSeq.Load() {
		s.mu.Unlock()
		return
	}
	status := Status{State: RunStateSucceeded, Run: int(seq), Elapsed: elapsed}
	if res.err != nil {
		status.State = RunStateFailed
		status.Err = res.err
	}
	s.output = res.output
	if res.err != nil && s.opts.ShowInlineErrors {
		s.output = joinNonEmpty(s.output, res.err.Error())
	}
	s.status = status
	s.mu.Unlock()

	s.logger.Debug("sandbox: run finished",
		"run", seq, "state", status.State.String(), "elapsed", elapsed)
	s.emit(event{status: &status})
}

// Render returns the live preview for a pane of the given width.
func (s *Session) Render(width, height int) string {
	s.mu.Lock()
	output := s.output
	status := s.status
	s.mu.Unlock()

	if status.State == RunStateIdle {
		return ""
	}
	if s.tmpl.render == nil {
		return output
	}
	rendered, err := s.tmpl.render(output, width)
	if err != nil {
		s.logger.CaptureError(err)
		return output
	}
	return rendered
}

// Close stops the session. No callback runs after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.runCancel != nil {
		s.runCancel()
	}
	if s.reloadTimer != nil {
		s.reloadTimer.Stop()
	}
	s.mu.Unlock()

	close(s.done)
	<-s.dispatchDone
	s.waitRuns()

	if s.onClose != nil {
		s.onClose(s.id)
	}
	s.logger.Debug("sandbox: session closed")
}

// waitRuns waits up to closeGrace for cancelled runs to return.
func (s *Session) waitRuns() {
	finished := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(closeGrace):
		s.logger.Warn("sandbox: run did not stop after cancellation")
	}
}

// emitConsole queues a console message of run seq, applying the rate
// limit. Dropped messages are counted in suppressed.
func (s *Session) emitConsole(seq int64, msg ConsoleMessage, suppressed *atomic.Int64) {
	if seq != s.runSeq.Load() {
		return
	}
	if !s.limiter.Allow() {
		suppressed.Add(1)
		return
	}
	s.emit(event{console: &msg})
}

func (s *Session) emit(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// dispatch delivers queued events until the session closes.
func (s *Session) dispatch() {
	defer close(s.dispatchDone)
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.deliver(ev)
		}
	}
}

func (s *Session) deliver(ev event) {
	s.subsMu.Lock()
	var consoleSubs []func(ConsoleMessage)
	var statusSubs []func(Status)
	if ev.console != nil {
		consoleSubs = make([]func(ConsoleMessage), 0, len(s.consoleSubs))
		for _, id := range sortedKeys(s.consoleSubs) {
			consoleSubs = append(consoleSubs, s.consoleSubs[id])
		}
	}
	if ev.status != nil {
		statusSubs = make([]func(Status), 0, len(s.statusSubs))
		for _, id := range sortedKeys(s.statusSubs) {
			statusSubs = append(statusSubs, s.statusSubs[id])
		}
	}
	s.subsMu.Unlock()

	for _, cb := range consoleSubs {
		cb(*ev.console)
	}
	for _, cb := range statusSubs {
		cb(*ev.status)
	}
}
