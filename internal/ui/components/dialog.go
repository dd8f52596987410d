package components

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/ui/styles"
)

// ConfirmDialog предоставляет переиспользуемое окно подтверждения.
type ConfirmDialog struct {
	Title       string
	Description string
	ConfirmText string
	CancelText  string

	Visible bool
	result  chan bool
	mu      sync.Mutex
}

// NewConfirmDialog создает диалог с дефолтными кнопками.
func NewConfirmDialog(title, description string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:       title,
		Description: description,
		ConfirmText: "Yes",
		CancelText:  "No",
	}
}

// Ask делает диалог видимым и возвращает команду, которая дождётся ответа
// и превратит его в сообщение через toMsg.
func (d *ConfirmDialog) Ask(toMsg func(bool) tea.Msg) tea.Cmd {
	ch := d.Show()
	return func() tea.Msg {
		return toMsg(<-ch)
	}
}

// Show делает диалог видимым и возвращает канал результата.
func (d *ConfirmDialog) Show() <-chan bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Visible && d.result != nil {
		return d.result
	}

	d.result = make(chan bool, 1)
	d.Visible = true
	return d.result
}

// IsVisible сообщает, показан ли диалог.
func (d *ConfirmDialog) IsVisible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Visible
}

// Hide скрывает диалог с отрицательным ответом.
func (d *ConfirmDialog) Hide() {
	d.respond(false)
}

// Update обрабатывает нажатия.
func (d *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !d.IsVisible() {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			d.respond(true)
		case "n", "N", "esc":
			d.respond(false)
		}
	}
	return nil
}

// View отрисовывает диалог.
func (d *ConfirmDialog) View(theme *styles.Theme) string {
	d.mu.Lock()
	visible := d.Visible
	title := d.Title
	desc := d.Description
	confirm := d.ConfirmText
	cancel := d.CancelText
	d.mu.Unlock()

	if !visible {
		return ""
	}
	titleView := theme.TitleStyle.Render(title)
	hint := theme.DimStyle.Render(fmt.Sprintf("%s: %s  %s: %s", confirm, "Enter/y", cancel, "Esc/n"))
	return theme.DialogStyle.Render(fmt.Sprintf("%s\n\n%s\n\n%s", titleView, desc, hint))
}

func (d *ConfirmDialog) respond(value bool) {
	d.mu.Lock()
	if !d.Visible && d.result == nil {
		d.mu.Unlock()
		return
	}
	ch := d.result
	d.Visible = false
	d.result = nil
	d.mu.Unlock()

	if ch != nil {
		select {
		case ch <- value:
		default:
		}
	}
}
