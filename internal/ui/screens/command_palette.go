package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/ui/styles"
)

// CommandEntry описывает одну команду в палитре.
type CommandEntry struct {
	ID      string
	Title   string
	Menu    string // File, Edit, Code-Runner, View
	Key     string
	Enabled bool
}

// CommandFetcher возвращает доступные команды.
type CommandFetcher func() []CommandEntry

// CommandExecuteMsg сообщает приложению, какую команду нужно выполнить.
type CommandExecuteMsg struct {
	ID string
}

// CommandPaletteScreen заменяет строку меню: список команд с фильтром.
type CommandPaletteScreen struct {
	BaseScreen

	theme    *styles.Theme
	fetch    CommandFetcher
	filter   textinput.Model
	entries  []CommandEntry
	filtered []CommandEntry
	selected int
}

func NewCommandPaletteScreen(theme *styles.Theme, fetch CommandFetcher) *CommandPaletteScreen {
	ti := textinput.New()
	ti.Placeholder = "Filter commands"
	ti.Prompt = "> "
	ti.Focus()

	return &CommandPaletteScreen{
		BaseScreen: NewBaseScreen("Commands"),
		theme:      theme,
		fetch:      fetch,
		filter:     ti,
	}
}

func (ps *CommandPaletteScreen) Init() tea.Cmd {
	ps.refresh()
	return nil
}

func (ps *CommandPaletteScreen) OnEnter() tea.Cmd {
	ps.filter.SetValue("")
	ps.selected = 0
	ps.refresh()
	return textinput.Blink
}

func (ps *CommandPaletteScreen) ShortHelp() string {
	return "↑↓ Select • Enter Run • Esc Back"
}

func (ps *CommandPaletteScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		ps.SetSize(m.Width, m.Height)
		ps.filter.Width = max(ps.Width()-8, 10)
		return ps, nil
	case tea.KeyMsg:
		switch m.String() {
		case "up", "shift+tab":
			ps.move(-1)
			return ps, nil
		case "down", "tab":
			ps.move(1)
			return ps, nil
		case "enter":
			if ps.selected >= 0 && ps.selected < len(ps.filtered) {
				entry := ps.filtered[ps.selected]
				if entry.Enabled {
					return ps, func() tea.Msg { return CommandExecuteMsg{ID: entry.ID} }
				}
			}
			return ps, nil
		case "esc":
			return ps, back
		}
		before := ps.filter.Value()
		var cmd tea.Cmd
		ps.filter, cmd = ps.filter.Update(m)
		if ps.filter.Value() != before {
			ps.applyFilter()
		}
		return ps, cmd
	}
	return ps, nil
}

// SelectedID возвращает id выделенной команды.
func (ps *CommandPaletteScreen) SelectedID() string {
	if ps.selected < 0 || ps.selected >= len(ps.filtered) {
		return ""
	}
	return ps.filtered[ps.selected].ID
}

func (ps *CommandPaletteScreen) move(delta int) {
	if len(ps.filtered) == 0 {
		return
	}
	ps.selected = clamp(ps.selected+delta, 0, len(ps.filtered)-1)
}

func (ps *CommandPaletteScreen) View() string {
	width := ps.Width()
	if width <= 0 {
		width = 80
	}
	width = max(width, 24)

	var lines []string
	if len(ps.filtered) == 0 {
		lines = append(lines, ps.theme.DimStyle.Render("No commands match filter"))
	}
	menu := ""
	for i, entry := range ps.filtered {
		if entry.Menu != menu {
			menu = entry.Menu
			lines = append(lines, ps.theme.TitleStyle.Render(menu))
		}
		prefix := "  "
		style := ps.theme.TextStyle
		if !entry.Enabled {
			style = ps.theme.DimStyle.Faint(true)
		}
		if i == ps.selected {
			prefix = "→ "
			style = ps.theme.SelectedEntryStyle
		}
		line := style.Render(prefix + entry.Title)
		if entry.Key != "" {
			line += ps.theme.DimStyle.Render("  [" + entry.Key + "]")
		}
		lines = append(lines, line)
	}

	content := ps.filter.View() + "\n\n" + strings.Join(lines, "\n")
	return ps.theme.DialogStyle.Width(width - 2).Render(content)
}

func (ps *CommandPaletteScreen) refresh() {
	if ps.fetch == nil {
		ps.entries = nil
		ps.filtered = nil
		return
	}
	ps.entries = ps.fetch()
	ps.applyFilter()
}

func (ps *CommandPaletteScreen) applyFilter() {
	filter := strings.ToLower(strings.TrimSpace(ps.filter.Value()))
	filtered := make([]CommandEntry, 0, len(ps.entries))
	for _, entry := range ps.entries {
		if filter == "" ||
			strings.Contains(strings.ToLower(entry.Title), filter) ||
			strings.Contains(strings.ToLower(entry.Menu), filter) ||
			strings.Contains(strings.ToLower(entry.Key), filter) {
			filtered = append(filtered, entry)
		}
	}
	ps.filtered = filtered
	switch {
	case len(ps.filtered) == 0:
		ps.selected = -1
	case ps.selected >= len(ps.filtered):
		ps.selected = len(ps.filtered) - 1
	case ps.selected < 0:
		ps.selected = 0
	}
}
