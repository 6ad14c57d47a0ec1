// Package sandbox runs playground code in an isolated interpreter and
// streams its console output to subscribers.
package sandbox

import "time"

// Options configures an execution session.
type Options struct {
	// ShowLineNumbers is a presentation hint for the editor surface.
	ShowLineNumbers bool

	// ShowInlineErrors appends execution errors to the preview output.
	ShowInlineErrors bool

	// AutoRun runs the code as soon as the session is started.
	AutoRun bool

	// AutoReload re-runs the code after an edit, once RecompileDelay has
	// passed without further edits.
	AutoReload bool

	// RecompileDelay debounces edits when AutoReload is set.
	RecompileDelay time.Duration

	// RunTimeout bounds a single run.
	RunTimeout time.Duration

	// MessagesPerSecond and MessageBurst bound console output of a run.
	// Messages over the limit are dropped and summarized once the run ends.
	MessagesPerSecond float64
	MessageBurst      int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers:   true,
		ShowInlineErrors:  true,
		AutoRun:           true,
		AutoReload:        true,
		RecompileDelay:    300 * time.Millisecond,
		RunTimeout:        5 * time.Second,
		MessagesPerSecond: 200,
		MessageBurst:      500,
	}
}

// withDefaults fills zero-valued limits.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RunTimeout <= 0 {
		o.RunTimeout = d.RunTimeout
	}
	if o.MessagesPerSecond <= 0 {
		o.MessagesPerSecond = d.MessagesPerSecond
	}
	if o.MessageBurst <= 0 {
		o.MessageBurst = d.MessageBurst
	}
	if o.RecompileDelay < 0 {
		o.RecompileDelay = 0
	}
	return o
}
