package playground

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
)

// Split view defaults.
const (
	// DefaultSplitRatio is the initial share of the editor pane.
	DefaultSplitRatio = 0.5

	// DefaultMinSplitRatio and DefaultMaxSplitRatio bound the ratio.
	DefaultMinSplitRatio = 0.25
	DefaultMaxSplitRatio = 0.75

	// DividerWidth is the number of columns taken by the divider.
	DividerWidth = 1
)

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// SplitBounds limits the split ratio to [Min, Max].
type SplitBounds struct {
	Min, Max float64
}

// DefaultSplitBounds returns [DefaultMinSplitRatio, DefaultMaxSplitRatio].
func DefaultSplitBounds() SplitBounds {
	return SplitBounds{Min: DefaultMinSplitRatio, Max: DefaultMaxSplitRatio}
}

// Validate checks that 0 < Min < Max < 1.
func (b SplitBounds) Validate() error {
	if !(b.Min > 0 && b.Min < b.Max && b.Max < 1) {
		return fmt.Errorf("playground: invalid split bounds [%v, %v]", b.Min, b.Max)
	}
	return nil
}

// Clamp limits r to the bounds.
func (b SplitBounds) Clamp(r float64) float64 {
	return min(max(r, b.Min), b.Max)
}

// DragState describes an in-progress divider drag.
type DragState struct {
	Dragging bool

	// Container is the container's bounds when the drag started.
	Container Rect
}

// pointerEvent names a pointer event routed through the drag scope.
type pointerEvent int

const (
	pointerMove pointerEvent = iota
	pointerUp
)

// SplitView lays out two panes side by side with a draggable divider.
//
// It owns the split ratio and the drag state. Pointer-move and pointer-up
// handlers exist only while a drag is active; outside a drag, move and up
// events have no effect.
type SplitView struct {
	ratio     float64
	bounds    SplitBounds
	container Rect

	drag DragState

	// listeners holds the pointer handlers of the active drag.
	listeners map[pointerEvent]func(x int)

	metrics *Metrics
}

// NewSplitView creates a split view.
//
// Invalid bounds fall back to DefaultSplitBounds. A non-positive or NaN
// initial ratio falls back to DefaultSplitRatio. The ratio is clamped.
func NewSplitView(initial float64, bounds SplitBounds) *SplitView {
	if bounds.Validate() != nil {
		bounds = DefaultSplitBounds()
	}
	if math.IsNaN(initial) || initial <= 0 {
		initial = DefaultSplitRatio
	}
	return &SplitView{
		ratio:  bounds.Clamp(initial),
		bounds: bounds,
	}
}

// Ratio returns the share of the container given to the left pane.
func (s *SplitView) Ratio() float64 { return s.ratio }

// Bounds returns the ratio limits.
func (s *SplitView) Bounds() SplitBounds { return s.bounds }

// Container returns the container bounds set by SetContainer.
func (s *SplitView) Container() Rect { return s.container }

// SetContainer records where the split view is laid out on screen.
func (s *SplitView) SetContainer(r Rect) { s.container = r }

// Dragging reports whether a divider drag is active.
func (s *SplitView) Dragging() bool { return s.drag.Dragging }

// DragState returns a snapshot of the drag state.
func (s *SplitView) DragState() DragState { return s.drag }

// ActiveListeners returns the number of attached pointer handlers.
func (s *SplitView) ActiveListeners() int { return len(s.listeners) }

// Layout splits the container width into the left pane, the divider and
// the right pane.
//
// dividerX is an absolute column.
func (s *SplitView) Layout() (leftWidth, dividerX, rightWidth int) {
	available := s.container.Width - DividerWidth
	if available <= 0 {
		return 0, s.container.X, 0
	}
	leftWidth = int(math.Round(s.ratio * float64(available)))
	leftWidth = clamp(leftWidth, 0, available)
	return leftWidth, s.container.X + leftWidth, available - leftWidth
}

// OnDivider reports whether the cell (x, y) is on the divider.
func (s *SplitView) OnDivider(x, y int) bool {
	if !s.container.Contains(x, y) {
		return false
	}
	_, dividerX, _ := s.Layout()
	return x >= dividerX && x < dividerX+DividerWidth
}

// PointerDown starts a drag if (x, y) is on the divider.
//
// It reports whether a drag started. A pointer-down during an active drag
// is ignored.
func (s *SplitView) PointerDown(x, y int) bool {
	if s.drag.Dragging || !s.OnDivider(x, y) {
		return false
	}

	s.drag = DragState{Dragging: true, Container: s.container}
	s.listeners = map[pointerEvent]func(int){
		pointerMove: s.handleMove,
		pointerUp:   func(int) { s.release() },
	}
	s.metrics.dragStarted()
	return true
}

// PointerMove delivers a pointer-move event to the active drag, if any.
func (s *SplitView) PointerMove(x int) {
	if h, ok := s.listeners[pointerMove]; ok {
		h(x)
	}
}

// PointerUp delivers a pointer-up event to the active drag, if any.
func (s *SplitView) PointerUp() {
	if h, ok := s.listeners[pointerUp]; ok {
		h(0)
	}
}

// CancelDrag ends an active drag without a pointer-up, e.g. when the
// terminal loses focus.
func (s *SplitView) CancelDrag() { s.release() }

// Close releases any drag in progress.
func (s *SplitView) Close() { s.release() }

// HandleMouse feeds a Bubble Tea mouse event into the drag state machine.
//
// It reports whether the event was consumed.
func (s *SplitView) HandleMouse(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if s.drag.Dragging {
			return true
		}
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		return s.PointerDown(msg.X, msg.Y)

	case tea.MouseActionMotion:
		if !s.drag.Dragging {
			return false
		}
		s.PointerMove(msg.X)
		return true

	case tea.MouseActionRelease:
		if !s.drag.Dragging {
			return false
		}
		s.PointerUp()
		return true
	}
	return false
}

// handleMove turns a pointer column into a new ratio.
//
// The container is read live, since the terminal may be resized
// mid-drag. A container too narrow for the divider yields no usable
// ratio and the candidate is discarded. The denominator matches Layout
// so the divider lands under the pointer.
func (s *SplitView) handleMove(x int) {
	available := s.container.Width - DividerWidth
	if available <= 0 {
		s.metrics.ratioDiscarded()
		return
	}
	candidate := float64(x-s.container.X) / float64(available)
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) {
		s.metrics.ratioDiscarded()
		return
	}
	s.ratio = s.bounds.Clamp(candidate)
}

func (s *SplitView) release() {
	s.drag = DragState{}
	clear(s.listeners)
	s.listeners = nil
}
