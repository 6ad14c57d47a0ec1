package playground

import (
	"errors"
	"slices"
	"sync"

	"github.com/inkpad/playground/internal/observability"
	"github.com/inkpad/playground/internal/sandbox"
)

// ErrAlreadyAttached is returned when attaching a capture a second time.
var ErrAlreadyAttached = errors.New("playground: console capture already attached")

// ConsoleCapture accumulates the console messages of one session.
//
// It is the only writer of its buffer. Messages are applied in arrival
// order until Detach; anything that arrives afterwards is dropped.
type ConsoleCapture struct {
	logger  *observability.CoreLogger
	metrics *Metrics

	mu          sync.Mutex
	entries     []LogEntry
	nextSeq     int
	attached    bool
	detached    bool
	unsubscribe func()

	// observer is notified after every change to the buffer.
	observer func()
}

// NewConsoleCapture returns an empty, unattached capture.
func NewConsoleCapture(logger *observability.CoreLogger, metrics *Metrics) *ConsoleCapture {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &ConsoleCapture{logger: logger, metrics: metrics}
}

// SetObserver registers fn to be called after each append and clear.
//
// fn runs on the goroutine that changed the buffer and must not block.
func (c *ConsoleCapture) SetObserver(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// Attach subscribes to src. A capture can be attached only once.
func (c *ConsoleCapture) Attach(src ConsoleSource) error {
	c.mu.Lock()
	if c.attached {
		c.mu.Unlock()
		return ErrAlreadyAttached
	}
	c.attached = true
	c.mu.Unlock()

	unsubscribe := src.OnConsoleMessage(c.handleMessage)

	c.mu.Lock()
	if c.detached {
		// Detached while subscribing.
		c.mu.Unlock()
		unsubscribe()
		return nil
	}
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

// Detach unsubscribes from the source. It is safe to call repeatedly.
func (c *ConsoleCapture) Detach() {
	c.mu.Lock()
	if c.detached {
		c.mu.Unlock()
		return
	}
	c.detached = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Detached reports whether Detach has been called.
func (c *ConsoleCapture) Detached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detached
}

// Clear empties the buffer and restarts sequence numbering at 0.
func (c *ConsoleCapture) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.nextSeq = 0
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer()
	}
}

// Entries returns a copy of the buffer in arrival order.
func (c *ConsoleCapture) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Len returns the number of buffered entries.
func (c *ConsoleCapture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// NextSequence returns the sequence number the next entry will get.
func (c *ConsoleCapture) NextSequence() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextSeq
}

func (c *ConsoleCapture) handleMessage(msg sandbox.ConsoleMessage) {
	// Formatting may walk large values; keep it outside the lock.
	entry := FormatMessage(0, msg)

	c.mu.Lock()
	if c.detached {
		c.mu.Unlock()
		c.metrics.droppedMessage()
		c.logger.Debug("console: dropped message after detach", "method", msg.Method)
		return
	}
	entry.Sequence = c.nextSeq
	c.nextSeq++
	c.entries = append(c.entries, entry)
	observer := c.observer
	c.mu.Unlock()

	c.metrics.consoleMessage(entry.Level)
	if observer != nil {
		observer()
	}
}
