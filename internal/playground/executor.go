package playground

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mock_executor_test.go -package=playground_test . Executor,ExecSession

import (
	"github.com/inkpad/playground/internal/sandbox"
)

// ConsoleSource is a stream of console messages.
type ConsoleSource interface {
	// OnConsoleMessage registers cb and returns a function that
	// unsubscribes it. Callbacks may run on any goroutine.
	OnConsoleMessage(cb func(sandbox.ConsoleMessage)) (unsubscribe func())
}

// ExecSession is a live execution session.
type ExecSession interface {
	ConsoleSource

	ID() string

	// OnStatus registers cb for run status changes.
	OnStatus(cb func(sandbox.Status)) (unsubscribe func())

	Status() sandbox.Status

	// Start performs the initial run, if the session runs automatically.
	Start()

	// Run executes the current files.
	Run()

	// UpdateFile replaces the content of one file.
	UpdateFile(path, content string)

	// Render returns the live preview for a pane of the given size.
	Render(width, height int) string

	// Close stops the session and releases its resources.
	Close()
}

// Executor creates execution sessions.
type Executor interface {
	CreateSession(
		files map[string]string,
		templateID string,
		opts sandbox.Options,
	) (ExecSession, error)
}

var _ ExecSession = (*sandbox.Session)(nil)

// sandboxExecutor adapts a sandbox.Runtime to Executor.
type sandboxExecutor struct {
	runtime *sandbox.Runtime
}

// NewSandboxExecutor returns an Executor backed by rt.
func NewSandboxExecutor(rt *sandbox.Runtime) Executor {
	return &sandboxExecutor{runtime: rt}
}

func (e *sandboxExecutor) CreateSession(
	files map[string]string,
	templateID string,
	opts sandbox.Options,
) (ExecSession, error) {
	s, err := e.runtime.CreateSession(files, templateID, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}
