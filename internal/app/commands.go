package app

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/platform"
	"pyedit/internal/session"
	"pyedit/internal/ui/screens"
)

// Группы меню повторяют строку меню классического окна редактора.
const (
	MenuFile   = "File"
	MenuEdit   = "Edit"
	MenuRun    = "Code-Runner"
	MenuView   = "View"
	MenuGlobal = "Application"
)

var menuOrder = map[string]int{
	MenuFile:   0,
	MenuEdit:   1,
	MenuRun:    2,
	MenuView:   3,
	MenuGlobal: 4,
}

// Command описывает действие, которое можно привязать к клавише и экрану.
type Command struct {
	ID      string
	Title   string
	Menu    string
	Key     string
	Screen  *ScreenType // nil → глобальная
	Enabled func(*App) bool
	Run     func(*App) tea.Cmd

	order int
}

// CommandRegistry хранит команды и находит их по клавише и экрану.
type CommandRegistry struct {
	byID  map[string]*Command
	byKey map[string][]*Command
	next  int
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		byID:  make(map[string]*Command),
		byKey: make(map[string][]*Command),
	}
}

func (r *CommandRegistry) Register(cmd *Command) {
	if cmd == nil || cmd.ID == "" {
		return
	}
	cmd.order = r.next
	r.next++
	r.byID[cmd.ID] = cmd
	if canonical := platform.CanonicalKey(cmd.Key); canonical != "" {
		r.byKey[canonical] = append(r.byKey[canonical], cmd)
	}
}

// Resolve возвращает команду, привязанную к key на экране screen. Привязка
// экрана важнее глобальной.
func (r *CommandRegistry) Resolve(key string, screen ScreenType) *Command {
	cmds := r.byKey[platform.CanonicalKey(key)]
	if len(cmds) == 0 {
		return nil
	}
	var global *Command
	for _, c := range cmds {
		if c.Screen == nil {
			if global == nil {
				global = c
			}
			continue
		}
		if *c.Screen == screen {
			return c
		}
	}
	return global
}

// Get возвращает команду по id.
func (r *CommandRegistry) Get(id string) *Command {
	if r == nil {
		return nil
	}
	return r.byID[id]
}

// All возвращает команды по меню, внутри меню в порядке регистрации.
func (r *CommandRegistry) All() []*Command {
	list := make([]*Command, 0, len(r.byID))
	for _, cmd := range r.byID {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool {
		mi, mj := menuOrder[list[i].Menu], menuOrder[list[j].Menu]
		if mi != mj {
			return mi < mj
		}
		return list[i].order < list[j].order
	})
	return list
}

// IsEnabled сообщает, доступна ли команда сейчас.
func (r *CommandRegistry) IsEnabled(cmd *Command, app *App) bool {
	return cmd != nil && cmd.Run != nil && (cmd.Enabled == nil || cmd.Enabled(app))
}

// Run выполняет команду по id, если она доступна.
func (r *CommandRegistry) Run(id string, app *App) tea.Cmd {
	cmd := r.Get(id)
	if !r.IsEnabled(cmd, app) {
		return nil
	}
	return cmd.Run(app)
}

// Entries готовит записи для палитры команд.
func (r *CommandRegistry) Entries(app *App) []screens.CommandEntry {
	all := r.All()
	entries := make([]screens.CommandEntry, 0, len(all))
	for _, cmd := range all {
		entries = append(entries, screens.CommandEntry{
			ID:      cmd.ID,
			Title:   cmd.Title,
			Menu:    cmd.Menu,
			Key:     platform.DisplayKey(cmd.Key),
			Enabled: r.IsEnabled(cmd, app),
		})
	}
	return entries
}

// registerCommands регистрирует команды приложения. Клавиши берутся из конфига.
func (a *App) registerCommands() {
	editor := EditorScreen
	onEditor := &editor
	key := a.config.Key

	cmds := []*Command{
		{ID: "new", Title: "New", Menu: MenuFile, Screen: onEditor,
			Run: func(a *App) tea.Cmd { return a.requestNew() }},
		{ID: "open", Title: "Open", Menu: MenuFile, Screen: onEditor,
			Run: func(a *App) tea.Cmd { return a.requestOpen() }},
		{ID: "save", Title: "Save", Menu: MenuFile, Screen: onEditor,
			Run: func(a *App) tea.Cmd { return a.save() }},
		{ID: "save_as", Title: "Save As", Menu: MenuFile, Screen: onEditor,
			Run: func(a *App) tea.Cmd { return a.saveAs() }},

		{ID: "undo", Title: "Undo", Menu: MenuEdit, Screen: onEditor,
			Run: func(a *App) tea.Cmd { a.editor.Undo(); return nil }},
		{ID: "redo", Title: "Redo", Menu: MenuEdit, Screen: onEditor,
			Run: func(a *App) tea.Cmd { a.editor.Redo(); return nil }},

		{ID: "run", Title: "Run", Menu: MenuRun, Screen: onEditor,
			Enabled: func(a *App) bool { return !a.running },
			Run:     func(a *App) tea.Cmd { return a.runCode() }},
		{ID: "about", Title: "About", Menu: MenuRun,
			Run: func(a *App) tea.Cmd { a.showAbout(); return nil }},

		{ID: "light_theme", Title: "Light Theme", Menu: MenuView,
			Enabled: func(a *App) bool { return a.session.Theme() != session.ThemeLight },
			Run:     func(a *App) tea.Cmd { a.applyTheme(session.ThemeLight); return nil }},
		{ID: "dark_theme", Title: "Dark Theme", Menu: MenuView,
			Enabled: func(a *App) bool { return a.session.Theme() != session.ThemeDark },
			Run:     func(a *App) tea.Cmd { a.applyTheme(session.ThemeDark); return nil }},
		{ID: "toggle_theme", Title: "Toggle Theme", Menu: MenuView,
			Run: func(a *App) tea.Cmd { a.applyTheme(a.session.ToggleTheme()); return nil }},

		{ID: "command_palette", Title: "Command Palette", Menu: MenuGlobal,
			Run: func(a *App) tea.Cmd { return a.router.SwitchTo(CommandPaletteScreen) }},
		{ID: "help", Title: "Help", Menu: MenuGlobal,
			Run: func(a *App) tea.Cmd { return a.router.SwitchTo(HelpScreen) }},
		{ID: "quit", Title: "Quit", Menu: MenuGlobal,
			Run: func(a *App) tea.Cmd { return a.requestQuit() }},
	}
	for _, cmd := range cmds {
		cmd.Key = key(cmd.ID)
		a.commands.Register(cmd)
	}
}
