package sandbox

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/inkpad/playground/internal/observability"
)

// Runtime creates execution sessions and tracks the live ones.
type Runtime struct {
	mu sync.Mutex

	// sessions maps session ids to live sessions.
	sessions map[string]*Session

	// closed holds the ids of sessions that have been closed.
	closed map[string]struct{}

	logger *observability.CoreLogger
}

// NewRuntime creates a Runtime.
func NewRuntime(logger *observability.CoreLogger) *Runtime {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &Runtime{
		sessions: make(map[string]*Session),
		closed:   make(map[string]struct{}),
		logger:   logger,
	}
}

// CreateSession creates a session for files using the given template.
//
// The session is idle until Start is called.
func (rt *Runtime) CreateSession(
	files map[string]string,
	templateID string,
	opts Options,
) (*Session, error) {
	tmpl, err := lookupTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if _, ok := files[tmpl.entry]; !ok {
		return nil, fmt.Errorf("sandbox: template %q needs file %s", templateID, tmpl.entry)
	}

	id := uuid.NewString()
	s := newSession(id, tmpl, files, opts, rt.logger, rt.remove)

	rt.mu.Lock()
	rt.sessions[id] = s
	rt.mu.Unlock()

	rt.logger.Debug("sandbox: session created", "session", id, "template", templateID)
	return s, nil
}

// Session returns the live session with the given id. It returns an
// error wrapping ErrSessionClosed for a session that has been closed.
func (rt *Runtime) Session(id string) (*Session, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s, ok := rt.sessions[id]
	if _, closed := rt.closed[id]; closed {
		return nil, fmt.Errorf("sandbox: session %s: %w", id, ErrSessionClosed)
	}
	if !ok {
		return nil, fmt.Errorf("sandbox: session %s not found", id)
	}
	return s, nil
}

// LiveSessions returns the number of sessions not yet closed.
func (rt *Runtime) LiveSessions() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.sessions)
}

// Close closes every live session.
func (rt *Runtime) Close() {
	rt.mu.Lock()
	live := make([]*Session, 0, len(rt.sessions))
	for _, s := range rt.sessions {
		live = append(live, s)
	}
	rt.mu.Unlock()

	for _, s := range live {
		s.Close()
	}
}

func (rt *Runtime) remove(id string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.sessions, id)
	rt.closed[id] = struct{}{}
}
