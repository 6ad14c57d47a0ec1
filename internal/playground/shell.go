package playground

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/inkpad/playground/internal/observability"
	"github.com/inkpad/playground/internal/sandbox"
)

// Props defaults.
const (
	DefaultTemplateID = sandbox.TemplateVanilla
	DefaultFileName   = "main.go"
)

// Props configures a playground.
type Props struct {
	// Code is the initial source. It becomes the original code.
	Code string

	// TemplateID selects the execution template. Defaults to "vanilla".
	TemplateID string

	// Height is the content area height in rows. Zero fills the terminal.
	Height int

	// FileName is the label shown in the header. Defaults to "main.go".
	FileName string
}

// PlaygroundSession is the code and identity of the current session.
type PlaygroundSession struct {
	// ID identifies the execution session. It changes on every reset and
	// is empty while no session is mounted.
	ID string

	// SourceCode is the code as currently edited.
	SourceCode string

	// OriginalCode is the code supplied at mount. It never changes.
	OriginalCode string

	TemplateID      string
	DisplayFileName string
}

// WatchParams enables reloading the source code from a file.
type WatchParams struct {
	Fs       afero.Fs
	Path     string
	Interval time.Duration
}

// ShellParams configures NewShell.
type ShellParams struct {
	Props Props

	Executor Executor

	// Options are the session options. Nil uses sandbox.DefaultOptions.
	Options *sandbox.Options

	// SplitRatio is the initial editor share. Zero uses DefaultSplitRatio.
	SplitRatio float64

	// SplitBounds limits the ratio. The zero value uses DefaultSplitBounds.
	SplitBounds SplitBounds

	Logger  *observability.CoreLogger
	Metrics *Metrics

	// Watch is optional.
	Watch *WatchParams
}

// focusTarget is the pane that receives keys.
type focusTarget int

const (
	focusEditor focusTarget = iota
	focusConsole
)

// refreshMsg asks for a re-render after a session or capture change.
type refreshMsg struct{}

// Shell is the playground: an editor and a Result/Console pane side by
// side, with a header and a key-hint bar.
//
// Implements tea.Model.
type Shell struct {
	props     Props
	opts      sandbox.Options
	executor  Executor
	logger    *observability.CoreLogger
	metrics   *Metrics
	entryFile string
	entryErr  error

	keyMap        map[string]func(*Shell, tea.KeyMsg) tea.Cmd
	consoleKeyMap map[string]func(*Shell, tea.KeyMsg) tea.Cmd

	session PlaygroundSession
	mounted bool
	closed  bool

	// Current execution session and its subscriptions. All nil while no
	// session is mounted.
	exec        ExecSession
	capture     *ConsoleCapture
	unsubStatus func()

	// mountErr is the error of the last failed mount.
	mountErr error

	split    *SplitView
	tabs     *TabController
	resetter *ResetController

	editor  textarea.Model
	preview viewport.Model
	console *ConsolePane
	focus   focusTarget

	// previewKey identifies the content currently in preview.
	previewKey previewKey

	watchParams *WatchParams
	watcher     *WatcherManager

	// refresh coalesces change notifications from session goroutines.
	refresh chan struct{}
	done    chan struct{}

	width, height int
}

type previewKey struct {
	session string
	run     int
	state   sandbox.RunState
	width   int
	err     string
}

// NewShell creates an unmounted playground. It mounts on Init.
func NewShell(params ShellParams) *Shell {
	props := params.Props
	if props.TemplateID == "" {
		props.TemplateID = DefaultTemplateID
	}
	if props.FileName == "" {
		props.FileName = DefaultFileName
	}

	opts := sandbox.DefaultOptions()
	if params.Options != nil {
		opts = *params.Options
	}

	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	bounds := params.SplitBounds
	if bounds == (SplitBounds{}) {
		bounds = DefaultSplitBounds()
	}
	split := NewSplitView(params.SplitRatio, bounds)
	split.metrics = params.Metrics

	entryFile, entryErr := sandbox.EntryFile(props.TemplateID)

	editor := textarea.New()
	editor.Prompt = ""
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = opts.ShowLineNumbers
	editor.SetValue(props.Code)
	editor.Focus()

	s := &Shell{
		props:         props,
		opts:          opts,
		executor:      params.Executor,
		logger:        logger.With("component", "shell"),
		metrics:       params.Metrics,
		entryFile:     entryFile,
		entryErr:      entryErr,
		keyMap:        buildKeyMap(ShellKeyBindings()),
		consoleKeyMap: buildKeyMap(ConsoleKeyBindings()),
		session: PlaygroundSession{
			SourceCode:      props.Code,
			OriginalCode:    props.Code,
			TemplateID:      props.TemplateID,
			DisplayFileName: props.FileName,
		},
		split:       split,
		tabs:        NewTabController(),
		editor:      editor,
		preview:     viewport.New(0, 0),
		console:     NewConsolePane(),
		watchParams: params.Watch,
		refresh:     make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	s.resetter = newResetController(s, s.logger, params.Metrics)
	return s
}

// Init mounts the playground and starts its background commands.
func (s *Shell) Init() tea.Cmd {
	if err := s.Mount(); err != nil {
		s.logger.CaptureError(err)
	}

	cmds := []tea.Cmd{textarea.Blink, s.waitForRefresh()}
	if s.watcher != nil {
		cmds = append(cmds, s.waitForWatcher())
	}
	return tea.Batch(cmds...)
}

// Mount creates the first session. Subsequent calls do nothing.
func (s *Shell) Mount() error {
	if s.mounted || s.closed {
		return nil
	}
	s.mounted = true

	if s.watchParams != nil {
		s.startWatcher()
	}
	return s.mountSession()
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		s.handleWindowResize(t.Width, t.Height)

	case tea.KeyMsg:
		cmd = s.handleKeyMsg(t)

	case tea.MouseMsg:
		cmd = s.handleMouse(t)

	case tea.BlurMsg:
		s.split.CancelDrag()

	case refreshMsg:
		cmd = s.waitForRefresh()

	case FileChangedMsg:
		cmd = s.handleFileChanged(t)
	}

	return s, cmd
}

// View renders the header, the split panes and the status bar.
func (s *Shell) View() string {
	if s.width <= 0 || s.height <= 0 {
		return "Loading..."
	}

	left, _, right := s.split.Layout()
	contentH := s.contentHeight()

	editorView := fitPane(s.editor.View(), left, contentH)
	divider := s.renderDivider(contentH)
	rightView := fitPane(s.renderRightPane(right, contentH), right, contentH)

	content := lipgloss.JoinHorizontal(lipgloss.Top, editorView, divider, rightView)

	view := lipgloss.JoinVertical(lipgloss.Left,
		s.renderHeader(),
		content,
		s.renderStatusBar(),
	)
	return lipgloss.Place(s.width, s.height, lipgloss.Left, lipgloss.Top, view)
}

// Session returns a snapshot of the current session.
func (s *Shell) Session() PlaygroundSession { return s.session }

// Capture returns the console capture of the current session, or nil
// while no session is mounted.
func (s *Shell) Capture() *ConsoleCapture { return s.capture }

// Tabs returns the tab selector.
func (s *Shell) Tabs() *TabController { return s.tabs }

// Split returns the split view.
func (s *Shell) Split() *SplitView { return s.split }

// MountErr returns the error of the last failed session creation.
func (s *Shell) MountErr() error { return s.mountErr }

// Reset restores the original code in a new session.
func (s *Shell) Reset() error { return s.resetter.Reset() }

// Close unmounts the playground. It is safe to call repeatedly.
func (s *Shell) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)

	s.unmountSession()
	s.split.Close()
	if s.watcher != nil {
		s.watcher.Finish()
	}
	s.logger.Debug("shell: closed")
}

// ---- Session lifecycle ----

func (s *Shell) mountSession() error {
	if s.entryErr != nil {
		s.mountErr = s.entryErr
		return s.entryErr
	}
	if s.executor == nil {
		s.mountErr = errors.New("playground: no executor")
		return s.mountErr
	}

	files := map[string]string{s.entryFile: s.session.SourceCode}
	exec, err := s.executor.CreateSession(files, s.session.TemplateID, s.opts)
	if err != nil {
		s.mountErr = fmt.Errorf("playground: create session: %w", err)
		return s.mountErr
	}

	capture := NewConsoleCapture(s.logger, s.metrics)
	capture.SetObserver(s.signalRefresh)
	if err := capture.Attach(exec); err != nil {
		exec.Close()
		s.mountErr = fmt.Errorf("playground: attach console: %w", err)
		return s.mountErr
	}

	s.exec = exec
	s.capture = capture
	s.unsubStatus = exec.OnStatus(func(sandbox.Status) { s.signalRefresh() })
	s.session.ID = exec.ID()
	s.mountErr = nil
	s.console.SetEntries(nil)

	s.logger.Debug("shell: session mounted", "session", s.session.ID)

	exec.Start()
	return nil
}

func (s *Shell) unmountSession() {
	if s.capture != nil {
		s.capture.Detach()
	}
	if s.unsubStatus != nil {
		s.unsubStatus()
	}
	if s.exec != nil {
		s.exec.Close()
		s.logger.Debug("shell: session unmounted", "session", s.session.ID)
	}

	s.exec = nil
	s.capture = nil
	s.unsubStatus = nil
	s.session.ID = ""
	s.console.SetEntries(nil)
	s.previewKey = previewKey{}
	s.preview.SetContent("")
}

func (s *Shell) restoreOriginal() {
	s.session.SourceCode = s.session.OriginalCode
	s.editor.SetValue(s.session.OriginalCode)
}

// setSource records an edit and forwards it to the session.
func (s *Shell) setSource(code string) {
	if code == s.session.SourceCode {
		return
	}
	s.session.SourceCode = code
	if s.exec != nil {
		s.exec.UpdateFile(s.entryFile, code)
	}
}

// signalRefresh requests a re-render. It never blocks.
func (s *Shell) signalRefresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

func (s *Shell) waitForRefresh() tea.Cmd {
	refresh, done := s.refresh, s.done
	return func() tea.Msg {
		select {
		case <-refresh:
			return refreshMsg{}
		case <-done:
			return nil
		}
	}
}

// ---- Layout ----

func (s *Shell) handleWindowResize(width, height int) {
	s.width, s.height = width, height
	s.relayout()
}

// contentHeight returns the number of rows of the split panes.
func (s *Shell) contentHeight() int {
	available := max(s.height-HeaderHeight-StatusBarHeight, 1)
	if s.props.Height > 0 {
		return min(s.props.Height, available)
	}
	return available
}

// relayout pushes the current geometry to the split view and widgets.
func (s *Shell) relayout() {
	contentH := s.contentHeight()
	s.split.SetContainer(Rect{X: 0, Y: HeaderHeight, Width: s.width, Height: contentH})

	left, _, right := s.split.Layout()
	s.editor.SetWidth(max(left, 1))
	s.editor.SetHeight(contentH)
	s.preview.Width = right
	s.preview.Height = contentH
}

// fitPane places view in a w×h box, cropping what does not fit.
func fitPane(view string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	placed := lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, view)
	return lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(placed)
}

// ---- Rendering ----

func (s *Shell) renderDivider(height int) string {
	style := dividerStyle
	if s.split.Dragging() {
		style = dividerDraggingStyle
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = dividerGlyph
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (s *Shell) renderRightPane(width, height int) string {
	if s.tabs.Active() == TabConsole {
		s.console.SetEntries(s.entries())
		return s.console.View(width, height)
	}
	s.syncPreview(width)
	return s.preview.View()
}

// syncPreview re-renders the preview when the session's output changed.
func (s *Shell) syncPreview(width int) {
	key := previewKey{session: s.session.ID, width: width}
	if s.mountErr != nil {
		key.err = s.mountErr.Error()
	}
	if s.exec != nil {
		st := s.exec.Status()
		key.run, key.state = st.Run, st.State
	}
	if key == s.previewKey {
		return
	}
	s.previewKey = key

	var content string
	switch {
	case s.mountErr != nil:
		content = previewErrorStyle.Render(s.mountErr.Error())
	case s.exec != nil:
		content = s.exec.Render(width, s.contentHeight())
	}
	if width > 0 {
		content = lipgloss.NewStyle().Width(width).Render(content)
	}
	s.preview.SetContent(content)
}

// entries returns the captured console entries of the current session.
func (s *Shell) entries() []LogEntry {
	if s.capture == nil {
		return nil
	}
	return s.capture.Entries()
}

// runStatus returns the label shown for the current run.
func (s *Shell) runStatus() string {
	switch {
	case s.mountErr != nil:
		return sandbox.RunStateFailed.String()
	case s.exec == nil:
		return sandbox.RunStateIdle.String()
	default:
		return s.exec.Status().State.String()
	}
}

func (s *Shell) renderStatusBar() string {
	focus := "EDITOR"
	if s.focus == focusConsole {
		focus = "CONSOLE"
	}
	text := focus + "  " + s.buildHelpText()
	text = truncateValue(text, max(s.width-2, 0))
	return statusBarStyle.Width(s.width).MaxWidth(s.width).Render(text)
}

// buildHelpText lists the bindings that carry a hint.
func (s *Shell) buildHelpText() string {
	var parts []string
	for _, category := range ShellKeyBindings() {
		for _, b := range category.Bindings {
			if b.Hint == "" || len(b.Keys) == 0 {
				continue
			}
			parts = append(parts, b.Keys[0]+" "+b.Hint)
		}
	}
	return strings.Join(parts, " • ")
}
