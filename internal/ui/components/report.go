package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"pyedit/internal/ui/styles"
)

// ReportKind выбирает оформление отчёта.
type ReportKind int

const (
	ReportInfo ReportKind = iota
	ReportError
)

// ReportDialog модальное окно с текстом (вывод скрипта, ошибки, уведомления).
type ReportDialog struct {
	Title string
	Body  string
	Kind  ReportKind

	Visible  bool
	width    int
	height   int
	viewport viewport.Model
}

// NewReportDialog создаёт скрытый диалог.
func NewReportDialog() *ReportDialog {
	return &ReportDialog{viewport: viewport.New(60, 10)}
}

// Show показывает отчёт. Пустое тело заменяется пометкой.
func (d *ReportDialog) Show(title, body string, kind ReportKind) {
	d.Title = title
	d.Body = body
	d.Kind = kind
	d.Visible = true
	d.layout()
	d.viewport.GotoTop()
}

// Hide закрывает диалог.
func (d *ReportDialog) Hide() {
	d.Visible = false
}

// SetSize задаёт размеры экрана, в которые диалог должен поместиться.
func (d *ReportDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.layout()
}

// Update закрывает диалог по Enter/Esc/q, остальное прокручивает текст.
// Возвращает true, если диалог закрыт.
func (d *ReportDialog) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !d.Visible {
		return false, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc", "q":
			d.Hide()
			return true, nil
		}
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return false, cmd
}

// View отрисовывает диалог.
func (d *ReportDialog) View(theme *styles.Theme) string {
	if !d.Visible {
		return ""
	}
	style := theme.DialogStyle
	if d.Kind == ReportError {
		style = theme.DialogErrorStyle
	}
	title := theme.TitleStyle.Render(d.Title)
	if d.Kind == ReportError {
		title = theme.ErrorStyle.Render(d.Title)
	}
	hint := theme.DimStyle.Render("Enter: OK")
	if d.viewport.TotalLineCount() > d.viewport.Height {
		hint = theme.DimStyle.Render("↑↓ Scroll • Enter: OK")
	}
	return style.Render(title + "\n\n" + d.viewport.View() + "\n\n" + hint)
}

func (d *ReportDialog) layout() {
	innerWidth := 60
	if d.width > 0 {
		innerWidth = max(min(d.width-8, 100), 10)
	}
	body := strings.TrimRight(d.Body, "\n")
	if body == "" {
		body = "(no output)"
	}
	wrapped := wordwrap.String(body, innerWidth)
	lines := strings.Count(wrapped, "\n") + 1

	maxHeight := 16
	if d.height > 0 {
		maxHeight = max(d.height-10, 3)
	}
	d.viewport.Width = innerWidth
	d.viewport.Height = max(min(lines, maxHeight), 1)
	d.viewport.SetContent(wrapped)
}
