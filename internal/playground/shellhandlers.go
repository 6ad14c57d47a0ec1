package playground

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
)

const resetLabel = "⟲ Reset"

// batchCmds combines zero or more commands into one, filtering nils.
func batchCmds(cmds ...tea.Cmd) tea.Cmd {
	n := 0
	for _, c := range cmds {
		if c != nil {
			cmds[n] = c
			n++
		}
	}
	switch n {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds[:n]...)
	}
}

// ---- Header ----

// headerAction is what a click on a header segment does.
type headerAction int

const (
	headerNone headerAction = iota
	headerTabResult
	headerTabConsole
	headerReset
)

// headerSegment is one rendered piece of the header line.
type headerSegment struct {
	rendered string
	x, width int
	action   headerAction
}

// headerLayout positions the header segments: file name and tabs on the
// left, run status and the Reset button on the right.
func (s *Shell) headerLayout() []headerSegment {
	tab := func(t Tab) string {
		if s.tabs.Active() == t {
			return activeTabStyle.Render(t.String())
		}
		return tabStyle.Render(t.String())
	}

	status := s.runStatus()
	statusStyle, ok := runStatusStyles[status]
	if !ok {
		statusStyle = runStatusStyles["idle"]
	}

	left := []headerSegment{
		{rendered: fileNameStyle.Render(s.session.DisplayFileName)},
		{rendered: tab(TabResult), action: headerTabResult},
		{rendered: tab(TabConsole), action: headerTabConsole},
	}
	right := []headerSegment{
		{rendered: statusStyle.Render("● " + status)},
		{rendered: resetButtonStyle.Render(resetLabel), action: headerReset},
	}

	x := 0
	for i := range left {
		left[i].x = x
		left[i].width = lipgloss.Width(left[i].rendered)
		x += left[i].width
	}

	rx := s.width
	for i := len(right) - 1; i >= 0; i-- {
		right[i].width = lipgloss.Width(right[i].rendered)
		rx -= right[i].width
		right[i].x = rx
	}

	// Drop the status when it would overlap the tabs.
	if len(right) > 1 && right[0].x < x {
		right = right[1:]
	}

	return append(left, right...)
}

func (s *Shell) renderHeader() string {
	var b strings.Builder
	x := 0
	for _, seg := range s.headerLayout() {
		if seg.x < x {
			continue
		}
		b.WriteString(strings.Repeat(" ", seg.x-x))
		b.WriteString(seg.rendered)
		x = seg.x + seg.width
	}
	return headerStyle.MaxWidth(s.width).Render(b.String())
}

// headerActionAt returns the action of the header segment at column x.
func (s *Shell) headerActionAt(x int) headerAction {
	for _, seg := range s.headerLayout() {
		if x >= seg.x && x < seg.x+seg.width {
			return seg.action
		}
	}
	return headerNone
}

// ---- Key / Mouse Dispatch ----

func (s *Shell) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	key := normalizeKey(msg.String())

	if handler, ok := s.keyMap[key]; ok {
		return handler(s, msg)
	}

	if s.focus == focusConsole {
		if handler, ok := s.consoleKeyMap[key]; ok {
			return handler(s, msg)
		}
		return nil
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	s.setSource(s.editor.Value())
	return cmd
}

func (s *Shell) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// An active drag takes every mouse event.
	if s.split.HandleMouse(msg) {
		s.relayout()
		return nil
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		return s.handleClick(msg)
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		return s.handleWheel(msg)
	}
	return nil
}

func (s *Shell) handleClick(msg tea.MouseMsg) tea.Cmd {
	if msg.Y < HeaderHeight {
		switch s.headerActionAt(msg.X) {
		case headerTabResult:
			s.switchTab(TabResult)
		case headerTabConsole:
			s.switchTab(TabConsole)
		case headerReset:
			s.reset()
		}
		return nil
	}

	container := s.split.Container()
	if !container.Contains(msg.X, msg.Y) {
		return nil
	}

	_, dividerX, _ := s.split.Layout()
	if msg.X < dividerX {
		s.setFocus(focusEditor)
		return nil
	}
	if s.tabs.Active() != TabConsole {
		return nil
	}

	paneX := dividerX + DividerWidth
	if msg.Y == container.Y {
		_, _, right := s.split.Layout()
		if start, end, ok := s.console.ClearButtonSpan(right); ok &&
			msg.X >= paneX+start && msg.X < paneX+end {
			s.clearConsole()
			return nil
		}
	}
	s.setFocus(focusConsole)
	return nil
}

func (s *Shell) handleWheel(msg tea.MouseMsg) tea.Cmd {
	_, dividerX, _ := s.split.Layout()
	if !s.split.Container().Contains(msg.X, msg.Y) || msg.X <= dividerX {
		return nil
	}

	if s.tabs.Active() == TabConsole {
		if msg.Button == tea.MouseButtonWheelUp {
			s.console.Up()
		} else {
			s.console.Down()
		}
		return nil
	}

	var cmd tea.Cmd
	s.preview, cmd = s.preview.Update(msg)
	return cmd
}

// ---- State transitions ----

func (s *Shell) switchTab(tab Tab) {
	if !s.tabs.SwitchTo(tab) {
		return
	}
	if tab == TabResult && s.focus == focusConsole {
		s.setFocus(focusEditor)
	}
}

func (s *Shell) setFocus(target focusTarget) {
	s.focus = target
	s.console.SetActive(target == focusConsole)
	if target == focusEditor {
		s.editor.Focus()
	} else {
		s.editor.Blur()
	}
}

func (s *Shell) clearConsole() {
	if s.capture != nil {
		s.capture.Clear()
	}
	s.console.SetEntries(nil)
}

func (s *Shell) reset() {
	if err := s.resetter.Reset(); err != nil {
		s.logger.Warn("shell: reset failed", "error", err)
	}
	s.relayout()
}

// ---- Key handlers ----

func (s *Shell) handleQuit(tea.KeyMsg) tea.Cmd {
	s.logger.Debug("shell: quit requested")
	s.Close()
	return tea.Quit
}

func (s *Shell) handleRun(tea.KeyMsg) tea.Cmd {
	if s.exec != nil {
		s.exec.Run()
	}
	return nil
}

func (s *Shell) handleReset(tea.KeyMsg) tea.Cmd {
	s.reset()
	return nil
}

func (s *Shell) handleShowResult(tea.KeyMsg) tea.Cmd {
	s.switchTab(TabResult)
	return nil
}

func (s *Shell) handleShowConsole(tea.KeyMsg) tea.Cmd {
	s.switchTab(TabConsole)
	return nil
}

func (s *Shell) handleClearConsole(tea.KeyMsg) tea.Cmd {
	s.clearConsole()
	return nil
}

func (s *Shell) handleToggleFocus(tea.KeyMsg) tea.Cmd {
	if s.focus == focusConsole {
		s.setFocus(focusEditor)
		return nil
	}
	if s.tabs.Active() == TabConsole {
		s.setFocus(focusConsole)
	}
	return nil
}

func (s *Shell) handleConsoleUp(tea.KeyMsg) tea.Cmd {
	s.console.Up()
	return nil
}

func (s *Shell) handleConsoleDown(tea.KeyMsg) tea.Cmd {
	s.console.Down()
	return nil
}

func (s *Shell) handleConsolePageUp(tea.KeyMsg) tea.Cmd {
	s.console.PageUp()
	return nil
}

func (s *Shell) handleConsolePageDown(tea.KeyMsg) tea.Cmd {
	s.console.PageDown()
	return nil
}

func (s *Shell) handleConsoleEnd(tea.KeyMsg) tea.Cmd {
	s.console.ScrollToEnd()
	return nil
}

// ---- Source file watching ----

func (s *Shell) startWatcher() {
	p := s.watchParams
	wm, err := NewWatcherManager(p.Path, p.Interval, s.logger)
	if err != nil {
		s.logger.CaptureError(err)
		return
	}
	s.watcher = wm
}

func (s *Shell) waitForWatcher() tea.Cmd {
	// The command must not reference s.watcher after Close.
	watcher := s.watcher
	if watcher == nil {
		return nil
	}
	return func() tea.Msg {
		return watcher.WaitForMsg()
	}
}

// handleFileChanged loads an externally saved version of the source.
//
// It replaces the edited code only; the original code is kept for reset.
func (s *Shell) handleFileChanged(msg FileChangedMsg) tea.Cmd {
	if s.closed || s.watchParams == nil {
		return nil
	}
	rearm := s.waitForWatcher()

	fsys := s.watchParams.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fsys, msg.Path)
	if err != nil {
		s.logger.CaptureError(err, "path", msg.Path)
		return rearm
	}

	code := string(data)
	if code != s.session.SourceCode {
		s.editor.SetValue(code)
		s.setSource(code)
		if s.exec != nil && !s.opts.AutoReload {
			s.exec.Run()
		}
		s.logger.Debug("shell: source reloaded", "path", msg.Path)
	}
	return rearm
}
