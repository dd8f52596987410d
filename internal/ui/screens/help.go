package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/ui/styles"
)

// HelpScreen показывает горячие клавиши команд и редактора.
type HelpScreen struct {
	BaseScreen

	theme    *styles.Theme
	lines    func() []string
	viewport viewport.Model
}

func NewHelpScreen(theme *styles.Theme, lines func() []string) *HelpScreen {
	return &HelpScreen{
		BaseScreen: NewBaseScreen("Help"),
		theme:      theme,
		lines:      lines,
		viewport:   viewport.New(80, 20),
	}
}

func (hs *HelpScreen) Init() tea.Cmd {
	hs.refresh()
	return nil
}

func (hs *HelpScreen) OnEnter() tea.Cmd {
	hs.refresh()
	hs.viewport.GotoTop()
	return nil
}

func (hs *HelpScreen) ShortHelp() string {
	return "↑↓ Scroll • Esc Back"
}

func (hs *HelpScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		hs.SetSize(m.Width, m.Height)
		hs.viewport.Width = max(m.Width, 1)
		hs.viewport.Height = max(m.Height-2, 1)
		return hs, nil
	case tea.KeyMsg:
		if m.String() == "esc" || m.String() == "q" {
			return hs, back
		}
	}
	var cmd tea.Cmd
	hs.viewport, cmd = hs.viewport.Update(msg)
	return hs, cmd
}

func (hs *HelpScreen) View() string {
	return hs.theme.TitleStyle.Render("Help") + "\n\n" + hs.viewport.View()
}

func (hs *HelpScreen) refresh() {
	if hs.lines == nil {
		return
	}
	hs.viewport.SetContent(strings.Join(hs.lines(), "\n"))
}
