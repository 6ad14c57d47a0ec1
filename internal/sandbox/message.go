package sandbox

import (
	"fmt"
	"time"
)

// ConsoleMessage is one console call made by running code.
type ConsoleMessage struct {
	// Method is the console function name, e.g. "log" or "error".
	Method string

	// Args are the call's positional arguments, unformatted.
	Args []any
}

// RunState is the lifecycle state of the most recent run.
type RunState int

const (
	RunStateIdle RunState = iota
	RunStateRunning
	RunStateSucceeded
	RunStateFailed
)

func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateRunning:
		return "running"
	case RunStateSucceeded:
		return "ok"
	case RunStateFailed:
		return "error"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// Status describes the most recent run of a session.
type Status struct {
	State RunState

	// Run counts runs within the session, starting at 1.
	Run int

	// Err is the execution error of a failed run.
	Err error

	// Elapsed is the duration of a finished run.
	Elapsed time.Duration
}

// event is the unit carried by a session's dispatch queue.
type event struct {
	console *ConsoleMessage
	status  *Status
}
