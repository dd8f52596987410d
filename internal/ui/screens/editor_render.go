package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const statusTTL = 4 * time.Second

// View отрисовывает заголовок, текст и футер.
func (es *EditorScreen) View() string {
	if es.Width() == 0 {
		return "Loading editor..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		es.renderHeader(),
		es.renderBody(),
		es.renderFooter(),
	)
}

func (es *EditorScreen) renderHeader() string {
	doc := es.session.Document()
	info := es.session.Title()
	info += " • " + humanize.Bytes(uint64(len(doc.Text())))
	return es.theme.HeaderStyle.Width(es.Width()).Render(truncate(info, es.Width()-2))
}

func (es *EditorScreen) renderBody() string {
	height := es.bodyHeight()
	gutter := es.gutterWidth()
	width := es.contentWidth()

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		idx := es.scrollOffset + row
		if idx >= es.buffer.lineCount() {
			blank := strings.Repeat(" ", gutter) + strings.Repeat(" ", width)
			lines = append(lines, es.theme.EditorStyle.Render(blank))
			continue
		}
		lines = append(lines, es.renderLine(idx, gutter, width))
	}
	return strings.Join(lines, "\n")
}

func (es *EditorScreen) renderFooter() string {
	line, col := es.Cursor()
	status := es.statusLine()
	if status == "" {
		state := es.session.State()
		status = fmt.Sprintf("Ln %d, Col %d • %s • %s", line+1, col+1, state, es.cfg.Runner.Interpreter)
	}
	return es.theme.StatusBarStyle.Width(es.Width()).Render(status)
}

func (es *EditorScreen) statusLine() string {
	if es.status == "" {
		return ""
	}
	if time.Since(es.statusAt) > statusTTL {
		es.status = ""
		return ""
	}
	switch es.statusKind {
	case statusError:
		return es.theme.ErrorMessage(es.status)
	case statusSuccess:
		return es.theme.SuccessMessage(es.status)
	default:
		return es.status
	}
}

func (es *EditorScreen) bodyHeight() int {
	return max(es.Height()-2, 1) // заголовок и футер
}

func (es *EditorScreen) gutterWidth() int {
	digits := len(fmt.Sprintf("%d", es.buffer.lineCount()))
	return max(digits, 3) + 1
}

func (es *EditorScreen) contentWidth() int {
	return max(es.Width()-es.gutterWidth(), 1)
}

// renderLine рисует номер строки и видимую часть строки с курсором и выделением.
func (es *EditorScreen) renderLine(idx, gutter, width int) string {
	numStyle := es.theme.LineNumberStyle
	if idx == es.buffer.cursor.line {
		numStyle = es.theme.ActiveLineNumber
	}
	number := numStyle.Render(fmt.Sprintf("%*d ", gutter-1, idx+1))

	base := es.theme.EditorStyle
	if idx == es.buffer.cursor.line {
		base = es.theme.CurrentLineStyle
	}
	selStart, selEnd := es.buffer.selectionRange()
	hasSel := es.buffer.hasSelection()

	var out strings.Builder
	var run strings.Builder
	var runStyle lipgloss.Style
	runOpen := false
	flush := func() {
		if runOpen && run.Len() > 0 {
			out.WriteString(runStyle.Render(run.String()))
		}
		run.Reset()
		runOpen = false
	}
	put := func(s string, style lipgloss.Style) {
		if !runOpen || !sameStyle(style, runStyle) {
			flush()
			runStyle = style
			runOpen = true
		}
		run.WriteString(s)
	}

	line := es.buffer.lines[idx]
	used := 0
	col := es.horizontalOffset
	for ; col < len(line); col++ {
		r := displayRune(line[col])
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		pos := textPos{line: idx, col: col}
		style := base
		switch {
		case pos == es.buffer.cursor:
			style = es.theme.CursorStyle
		case hasSel && !pos.before(selStart) && pos.before(selEnd):
			style = es.theme.SelectionStyle
		}
		put(string(r), style)
		used += w
	}
	if idx == es.buffer.cursor.line && es.buffer.cursor.col == len(line) && used < width {
		put(" ", es.theme.CursorStyle)
		used++
	}
	if used < width {
		put(strings.Repeat(" ", width-used), base)
	}
	flush()
	return number + out.String()
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBackground() == b.GetBackground()
}

// displayRune заменяет управляющие символы пробелом, чтобы колонки совпадали с рунами.
func displayRune(r rune) rune {
	if r == '\t' || r == '\r' || r < 0x20 {
		return ' '
	}
	return r
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
