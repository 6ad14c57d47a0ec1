package playground_test

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/inkpad/playground/internal/playground"
	"github.com/inkpad/playground/internal/sandbox"
)

// fakeSession is an ExecSession that delivers messages synchronously on
// the caller's goroutine.
type fakeSession struct {
	id string

	mu          sync.Mutex
	files       map[string]string
	nextSubID   int
	consoleSubs map[int]func(sandbox.ConsoleMessage)
	statusSubs  map[int]func(sandbox.Status)
	// everSubscribed keeps every console callback, unsubscribed or not,
	// to simulate belated deliveries.
	everSubscribed []func(sandbox.ConsoleMessage)
	status         sandbox.Status
	started        bool
	closed         bool
	runs           int
	updates        int
}

var _ playground.ExecSession = (*fakeSession)(nil)

func newFakeSession(id string, files map[string]string) *fakeSession {
	return &fakeSession{
		id:          id,
		files:       maps.Clone(files),
		consoleSubs: make(map[int]func(sandbox.ConsoleMessage)),
		statusSubs:  make(map[int]func(sandbox.Status)),
	}
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) OnConsoleMessage(cb func(sandbox.ConsoleMessage)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSubID
	f.nextSubID++
	f.consoleSubs[id] = cb
	f.everSubscribed = append(f.everSubscribed, cb)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.consoleSubs, id)
	}
}

func (f *fakeSession) OnStatus(cb func(sandbox.Status)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSubID
	f.nextSubID++
	f.statusSubs[id] = cb
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.statusSubs, id)
	}
}

func (f *fakeSession) Status() sandbox.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSession) Start() {
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
	f.Run()
}

func (f *fakeSession) Run() {
	f.mu.Lock()
	f.runs++
	f.status = sandbox.Status{State: sandbox.RunStateSucceeded, Run: f.runs}
	st := f.status
	subs := make([]func(sandbox.Status), 0, len(f.statusSubs))
	for _, cb := range f.statusSubs {
		subs = append(subs, cb)
	}
	f.mu.Unlock()

	for _, cb := range subs {
		cb(st)
	}
}

func (f *fakeSession) UpdateFile(path, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
	f.updates++
}

func (f *fakeSession) Render(width, height int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("preview of run %d", f.runs)
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Emit delivers a console message to the current subscribers.
func (f *fakeSession) Emit(method string, args ...any) {
	f.mu.Lock()
	subs := make([]func(sandbox.ConsoleMessage), 0, len(f.consoleSubs))
	for id := range f.nextSubID {
		if cb, ok := f.consoleSubs[id]; ok {
			subs = append(subs, cb)
		}
	}
	f.mu.Unlock()

	for _, cb := range subs {
		cb(sandbox.ConsoleMessage{Method: method, Args: args})
	}
}

// EmitBelated delivers a message to every callback ever registered,
// including unsubscribed ones.
func (f *fakeSession) EmitBelated(method string, args ...any) {
	f.mu.Lock()
	subs := slices.Clone(f.everSubscribed)
	f.mu.Unlock()

	for _, cb := range subs {
		cb(sandbox.ConsoleMessage{Method: method, Args: args})
	}
}

func (f *fakeSession) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.consoleSubs) + len(f.statusSubs)
}

func (f *fakeSession) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSession) File(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[path]
}

// fakeExecutor creates fakeSessions with ids "session-1", "session-2", ...
type fakeExecutor struct {
	mu       sync.Mutex
	sessions []*fakeSession
	failNext error
}

func (e *fakeExecutor) CreateSession(
	files map[string]string,
	templateID string,
	opts sandbox.Options,
) (playground.ExecSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.failNext; err != nil {
		e.failNext = nil
		return nil, err
	}
	s := newFakeSession(fmt.Sprintf("session-%d", len(e.sessions)+1), files)
	e.sessions = append(e.sessions, s)
	return s, nil
}

func (e *fakeExecutor) FailNext(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNext = err
}

func (e *fakeExecutor) Last() *fakeSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sessions) == 0 {
		return nil
	}
	return e.sessions[len(e.sessions)-1]
}

func (e *fakeExecutor) Sessions() []*fakeSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*fakeSession(nil), e.sessions...)
}
