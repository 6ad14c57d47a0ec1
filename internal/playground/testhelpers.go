// Test<API> provides a controlled interface for testing internal model state.
// These methods are only exposed for tests in the playground_test package.
package playground

// TestEditorValue returns the editor's text.
func (s *Shell) TestEditorValue() string {
	return s.editor.Value()
}

// TestConsoleFocused reports whether the console pane holds focus.
func (s *Shell) TestConsoleFocused() bool {
	return s.focus == focusConsole
}

// TestHeaderButtonX returns a column inside the header control with the
// given label ("Result", "Console" or "Reset").
func (s *Shell) TestHeaderButtonX(label string) (int, bool) {
	want := map[string]headerAction{
		"Result":  headerTabResult,
		"Console": headerTabConsole,
		"Reset":   headerReset,
	}[label]
	for _, seg := range s.headerLayout() {
		if seg.action == want && want != headerNone {
			return seg.x + seg.width/2, true
		}
	}
	return 0, false
}

// TestClearButtonX returns a column inside the console's Clear button.
func (s *Shell) TestClearButtonX() (int, bool) {
	_, dividerX, right := s.split.Layout()
	start, end, ok := s.console.ClearButtonSpan(right)
	if !ok {
		return 0, false
	}
	return dividerX + DividerWidth + (start+end)/2, true
}

// TestWatching reports whether a source file watcher is running.
func (s *Shell) TestWatching() bool {
	return s.watcher != nil
}

// TestPreviewContent re-renders and returns the Result pane.
func (s *Shell) TestPreviewContent() string {
	_, _, right := s.split.Layout()
	s.syncPreview(right)
	return s.preview.View()
}
