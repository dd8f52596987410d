package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/ui/styles"
)

// PromptResult итог обработки клавиши в PathPrompt.
type PromptResult int

const (
	PromptPending PromptResult = iota
	PromptSubmitted
	PromptCancelled
)

// PathPrompt запрашивает путь к файлу (Save As).
type PathPrompt struct {
	Title   string
	Visible bool
	input   textinput.Model
}

// NewPathPrompt создаёт скрытое поле ввода.
func NewPathPrompt() *PathPrompt {
	ti := textinput.New()
	ti.Prompt = "Path: "
	ti.Placeholder = "script.py"
	ti.CharLimit = 4096
	ti.Width = 60
	return &PathPrompt{input: ti}
}

// Show показывает поле с начальным значением.
func (p *PathPrompt) Show(title, initial string) tea.Cmd {
	p.Title = title
	p.Visible = true
	p.input.SetValue(initial)
	p.input.CursorEnd()
	p.input.Focus()
	return textinput.Blink
}

// Hide скрывает поле.
func (p *PathPrompt) Hide() {
	p.Visible = false
	p.input.Blur()
}

// Value возвращает введённый путь без пробелов по краям.
func (p *PathPrompt) Value() string {
	return strings.TrimSpace(p.input.Value())
}

// SetWidth подгоняет ширину поля под экран.
func (p *PathPrompt) SetWidth(width int) {
	p.input.Width = max(min(width-16, 100), 10)
}

// Update обрабатывает ввод. Пустой путь не принимается.
func (p *PathPrompt) Update(msg tea.Msg) (PromptResult, tea.Cmd) {
	if !p.Visible {
		return PromptPending, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if p.Value() == "" {
				return PromptPending, nil
			}
			p.Hide()
			return PromptSubmitted, nil
		case "esc":
			p.Hide()
			return PromptCancelled, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return PromptPending, cmd
}

// View отрисовывает поле.
func (p *PathPrompt) View(theme *styles.Theme) string {
	if !p.Visible {
		return ""
	}
	hint := theme.DimStyle.Render("Enter: Save  Esc: Cancel")
	return theme.DialogStyle.Render(theme.TitleStyle.Render(p.Title) + "\n\n" + p.input.View() + "\n\n" + hint)
}
