package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ConsolePane layout constants.
const (
	consolePaneHeader      = "Console"
	consolePaneHeaderLines = 1

	// consolePaneEmptyHint is shown while the buffer is empty.
	consolePaneEmptyHint = "Console output will appear here..."

	// consoleClearLabel is the Clear button, shown only with entries.
	consoleClearLabel = "[Clear]"

	// consoleLevelWidth fits the longest level name, "error".
	consoleLevelWidth = len("error")
)

// ConsolePane is a scrollable view over captured console entries.
//
// It follows the tail while new entries arrive. Moving the cursor away
// from the last entry freezes auto-scroll until the cursor returns to
// the end or ScrollToEnd is called.
type ConsolePane struct {
	logs []LogEntry

	// cursor is the selected entry index.
	cursor int
	// top is the first visible entry index.
	top int

	active     bool
	autoScroll bool

	// Layout of the most recent View call, used by page navigation.
	lastValueWidth   int
	lastContentLines int
}

// NewConsolePane returns an empty pane with auto-scroll enabled.
func NewConsolePane() *ConsolePane {
	return &ConsolePane{autoScroll: true}
}

// Active reports whether the pane holds keyboard focus.
func (c *ConsolePane) Active() bool { return c.active }

// SetActive sets whether the pane holds keyboard focus.
func (c *ConsolePane) SetActive(active bool) { c.active = active }

// Len returns the number of displayed entries.
func (c *ConsolePane) Len() int { return len(c.logs) }

// SetEntries replaces the displayed entries.
func (c *ConsolePane) SetEntries(entries []LogEntry) {
	c.logs = entries

	if len(c.logs) == 0 {
		c.cursor = 0
		c.top = 0
		c.autoScroll = true
		return
	}

	c.cursor = clamp(c.cursor, 0, len(c.logs)-1)
	c.top = clamp(c.top, 0, len(c.logs)-1)

	if c.autoScroll {
		c.scrollToEnd()
	} else {
		c.ensureCursorVisible()
	}
}

// ClearButtonSpan returns the columns [start, end) of the Clear button
// relative to the pane's left edge, for a pane of the given width.
//
// ok is false when the button is not shown.
func (c *ConsolePane) ClearButtonSpan(width int) (start, end int, ok bool) {
	if len(c.logs) == 0 {
		return 0, 0, false
	}
	w := lipgloss.Width(consoleClearButtonStyle.Render(consoleClearLabel))
	if width < w+lipgloss.Width(consolePaneHeaderStyle.Render(consolePaneHeader)) {
		return 0, 0, false
	}
	return width - w, width, true
}

// View renders the pane at the given size.
func (c *ConsolePane) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	contentLines := max(height-consolePaneHeaderLines, 1)
	maxKeyWidth := min(consoleLevelWidth+1, max(width-2, 1))
	maxValueWidth := max(width-maxKeyWidth-1, 1)

	c.lastValueWidth = maxValueWidth
	c.lastContentLines = contentLines

	if c.autoScroll {
		c.scrollToEnd()
	} else {
		c.ensureCursorVisible()
	}

	end := c.visibleEnd(c.top, maxValueWidth, contentLines)

	header := c.renderHeader(width, c.top, end, len(c.logs))
	content := c.renderContent(maxKeyWidth, maxValueWidth, contentLines, c.top, end)

	body := lipgloss.JoinVertical(lipgloss.Left, header, content)
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, body)
}

// renderHeader returns the "Console     [X-Y of N] [Clear]" line.
func (c *ConsolePane) renderHeader(width, startIdx, endIdx, total int) string {
	title := consolePaneHeaderStyle.Render(consolePaneHeader)

	var button string
	if _, _, ok := c.ClearButtonSpan(width); ok {
		button = consoleClearButtonStyle.Render(consoleClearLabel)
	}

	navInfo := navInfoStyle.Render(c.buildNavigationInfo(startIdx, endIdx, total))
	if lipgloss.Width(title)+lipgloss.Width(navInfo)+lipgloss.Width(button) > width {
		navInfo = ""
	}

	fillerWidth := width - lipgloss.Width(title) - lipgloss.Width(navInfo) - lipgloss.Width(button)
	filler := strings.Repeat(" ", max(fillerWidth, 0))
	return lipgloss.JoinHorizontal(lipgloss.Left, title, filler, navInfo, button)
}

// buildNavigationInfo formats the "[X-Y of N]" range indicator.
func (c *ConsolePane) buildNavigationInfo(startIdx, endIdx, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("[%d-%d of %d] ", startIdx+1, endIdx, total)
}

// renderContent builds the visible rows, padded to contentLines.
func (c *ConsolePane) renderContent(
	maxKeyWidth, maxValueWidth, contentLines, startIdx, endIdx int,
) string {
	if len(c.logs) == 0 {
		return consoleHintStyle.Render(
			truncateValue(consolePaneEmptyHint, maxKeyWidth+1+maxValueWidth) +
				strings.Repeat("\n", contentLines-1))
	}

	startIdx = clamp(startIdx, 0, len(c.logs)-1)
	endIdx = clamp(endIdx, startIdx, len(c.logs))

	var out []string
	used := 0

	for i := startIdx; i < endIdx && used < contentLines; i++ {
		remaining := contentLines - used
		entry, lines := c.renderEntry(
			c.logs[i], i == c.cursor && c.active, maxKeyWidth, maxValueWidth, remaining)
		out = append(out, entry)
		used += lines
	}

	for used < contentLines {
		out = append(out, "")
		used++
	}

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// renderEntry renders one entry, wrapping its text and showing the level
// only on the first line. Entries taller than maxLines are truncated with
// an ellipsis.
func (c *ConsolePane) renderEntry(
	entry LogEntry, highlighted bool, maxKeyWidth, maxValueWidth, maxLines int,
) (string, int) {
	keyStyle := consoleLevelStyle(entry.Level)
	valueStyle := consoleValueStyle(entry.Level)
	if highlighted {
		keyStyle = keyStyle.Inherit(consoleHighlightStyle)
		valueStyle = valueStyle.Inherit(consoleHighlightStyle)
	}

	lines := WrapText(entry.Text(), maxValueWidth)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[len(lines)-1] = WithEllipsis(lines[len(lines)-1], maxValueWidth)
	}

	rendered := make([]string, 0, len(lines))
	for i, v := range lines {
		key := ""
		if i == 0 {
			key = entry.Level.String()
		}
		rendered = append(rendered,
			keyStyle.Width(maxKeyWidth).Render(key)+" "+valueStyle.Render(v))
	}

	return strings.Join(rendered, "\n"), len(rendered)
}

// ---- Navigation ----

// Up moves the cursor one entry up, wrapping to the last entry.
func (c *ConsolePane) Up() {
	if len(c.logs) == 0 {
		return
	}
	if c.cursor == 0 {
		c.cursor = len(c.logs) - 1
		c.scrollToEnd()
	} else {
		c.cursor--
		c.ensureCursorVisible()
	}
	c.updateAutoScroll()
}

// Down moves the cursor one entry down, wrapping to the first entry.
func (c *ConsolePane) Down() {
	if len(c.logs) == 0 {
		return
	}
	if c.cursor == len(c.logs)-1 {
		c.cursor = 0
		c.top = 0
	} else {
		c.cursor++
		c.ensureCursorVisible()
	}
	c.updateAutoScroll()
}

// PageDown advances by one screenful, wrapping to the top past the end.
func (c *ConsolePane) PageDown() {
	if len(c.logs) == 0 {
		return
	}
	if c.lastContentLines <= 0 || c.lastValueWidth <= 0 {
		c.Down()
		return
	}

	end := c.visibleEnd(c.top, c.lastValueWidth, c.lastContentLines)
	if end >= len(c.logs) {
		c.cursor = 0
		c.top = 0
		c.updateAutoScroll()
		return
	}

	c.top = end
	c.cursor = end
	c.ensureCursorVisible()
	c.updateAutoScroll()
}

// PageUp moves back by one screenful, wrapping to the end before the start.
func (c *ConsolePane) PageUp() {
	if len(c.logs) == 0 {
		return
	}
	if c.lastContentLines <= 0 || c.lastValueWidth <= 0 {
		c.Up()
		return
	}

	if c.top == 0 {
		c.cursor = len(c.logs) - 1
		c.scrollToEnd()
		c.updateAutoScroll()
		return
	}

	newTop := c.top
	used := 0
	for newTop > 0 && used < c.lastContentLines {
		prev := newTop - 1
		h := wrappedLineCount(c.logs[prev].Text(), c.lastValueWidth)
		if used+h > c.lastContentLines && used > 0 {
			break
		}
		used += min(h, c.lastContentLines-used)
		newTop = prev
	}

	c.top = newTop
	c.cursor = newTop
	c.ensureCursorVisible()
	c.updateAutoScroll()
}

// ScrollToEnd shows the last entry and re-enables auto-scroll.
func (c *ConsolePane) ScrollToEnd() {
	c.autoScroll = true
	c.scrollToEnd()
}

func (c *ConsolePane) updateAutoScroll() {
	if len(c.logs) == 0 {
		c.autoScroll = true
		return
	}
	if c.cursor == len(c.logs)-1 {
		c.autoScroll = true
		c.scrollToEnd()
		return
	}
	c.autoScroll = false
}

func (c *ConsolePane) ensureCursorVisible() {
	if len(c.logs) == 0 {
		c.cursor = 0
		c.top = 0
		return
	}

	c.cursor = clamp(c.cursor, 0, len(c.logs)-1)
	c.top = clamp(c.top, 0, len(c.logs)-1)

	if c.cursor < c.top {
		c.top = c.cursor
		return
	}

	for c.cursor >= c.visibleEnd(
		c.top, c.lastValueWidth, c.lastContentLines) && c.top < len(c.logs)-1 {
		c.top++
	}
}

// scrollToEnd positions the viewport so the last entry is at the bottom.
func (c *ConsolePane) scrollToEnd() {
	if len(c.logs) == 0 {
		c.cursor = 0
		c.top = 0
		return
	}
	c.cursor = len(c.logs) - 1

	if c.lastContentLines <= 0 || c.lastValueWidth <= 0 {
		c.top = c.cursor
		return
	}

	top := c.cursor
	used := min(wrappedLineCount(c.logs[top].Text(), c.lastValueWidth), c.lastContentLines)

	for top > 0 && used < c.lastContentLines {
		prev := top - 1
		h := wrappedLineCount(c.logs[prev].Text(), c.lastValueWidth)
		if used+h > c.lastContentLines {
			break
		}
		used += h
		top = prev
	}

	c.top = top
}

// visibleEnd returns the exclusive end index of the entries that fit in
// contentLines rows starting at startIdx.
func (c *ConsolePane) visibleEnd(startIdx, maxValueWidth, contentLines int) int {
	if len(c.logs) == 0 {
		return 0
	}
	startIdx = clamp(startIdx, 0, len(c.logs)-1)

	used := 0
	i := startIdx
	for i < len(c.logs) && used < contentLines {
		remaining := contentLines - used
		h := wrappedLineCount(c.logs[i].Text(), maxValueWidth)
		used += min(h, remaining)
		i++
	}
	return i
}

// ---- Text utilities ----

// WithEllipsis truncates line so that it fits within maxWidth including
// a trailing "..." marker.
func WithEllipsis(line string, maxWidth int) string {
	const marker = "..."
	mw := runewidth.StringWidth(marker)
	if maxWidth <= mw {
		return marker[:max(0, maxWidth)]
	}

	target := maxWidth - mw
	var b strings.Builder
	w := 0
	for _, r := range line {
		rw := runewidth.RuneWidth(r)
		if w+rw > target {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	b.WriteString(marker)
	return b.String()
}

// truncateValue shortens s to maxWidth columns, marking the cut with an
// ellipsis.
func truncateValue(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return WithEllipsis(s, maxWidth)
}

// wrappedLineCount counts the rows text occupies when soft-wrapped at
// maxWidth.
func wrappedLineCount(text string, maxWidth int) int {
	if maxWidth <= 0 {
		return 1
	}
	total := 0
	for _, p := range strings.Split(text, "\n") {
		w := runewidth.StringWidth(p)
		if w == 0 {
			total++
			continue
		}
		total += (w + maxWidth - 1) / maxWidth
	}
	return max(total, 1)
}

// WrapText soft-wraps text at maxWidth, preserving embedded newlines.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var out []string
	for _, part := range strings.Split(text, "\n") {
		out = append(out, wrapSingleLine(part, maxWidth)...)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// wrapSingleLine breaks a line without newlines into chunks of at most
// maxWidth columns.
func wrapSingleLine(s string, maxWidth int) []string {
	if runewidth.StringWidth(s) <= maxWidth {
		return []string{s}
	}

	runes := []rune(s)
	var lines []string

	for start := 0; start < len(runes); {
		w := 0
		end := start
		for end < len(runes) {
			rw := runewidth.RuneWidth(runes[end])
			if w+rw > maxWidth && end > start {
				break
			}
			w += rw
			end++
			if w >= maxWidth {
				break
			}
		}
		lines = append(lines, string(runes[start:end]))
		start = end
	}

	return lines
}
