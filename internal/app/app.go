package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"pyedit/internal/config"
	"pyedit/internal/fs"
	"pyedit/internal/logger"
	"pyedit/internal/runner"
	"pyedit/internal/session"
	"pyedit/internal/ui/components"
	"pyedit/internal/ui/screens"
	"pyedit/internal/ui/styles"
)

// ScreenType определяет тип экрана
type ScreenType int

const (
	EditorScreen ScreenType = iota
	OpenFileScreen
	CommandPaletteScreen
	HelpScreen
)

// Options необязательные зависимости App.
type Options struct {
	Version     string
	InitialFile string
	Runner      *runner.Runner
	Watcher     *fs.FileWatcher
	Clipboard   screens.Clipboard
}

// App представляет главное приложение
type App struct {
	ctx           context.Context
	config        *config.Config
	log           zerolog.Logger
	version       string
	currentScreen ScreenType
	screens       map[ScreenType]screens.Screen
	router        *ScreenRouter
	commands      *CommandRegistry
	theme         *styles.Theme

	session *session.Session
	runner  *runner.Runner
	watcher *fs.FileWatcher
	editor  *screens.EditorScreen

	// Модальные окна, в порядке приоритета обработки клавиш
	report  *components.ReportDialog
	confirm *components.ConfirmDialog
	prompt  *components.PathPrompt

	spinner   spinner.Model
	running   bool
	cancelRun context.CancelFunc

	initialFile string
	width       int
	height      int
	quitting    bool
}

// New создает новое приложение
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	run := opts.Runner
	if run == nil {
		run = runner.New(cfg.Runner.Interpreter,
			runner.WithTimeout(cfg.Runner.Timeout),
			runner.WithLogger(logger.Component(log, "runner")))
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	app := &App{
		ctx:         ctx,
		config:      cfg,
		log:         logger.Component(log, "app"),
		version:     opts.Version,
		screens:     make(map[ScreenType]screens.Screen),
		commands:    NewCommandRegistry(),
		theme:       styles.NewTheme(cfg.Theme),
		runner:      run,
		watcher:     opts.Watcher,
		report:      components.NewReportDialog(),
		confirm:     components.NewConfirmDialog("", ""),
		prompt:      components.NewPathPrompt(),
		spinner:     sp,
		initialFile: opts.InitialFile,
	}
	app.session = session.New(session.Options{
		MaxHistory: cfg.Editor.MaxHistory,
		Theme:      app.theme.Name(),
		Logger:     logger.Component(log, "session"),
	})

	// Инициализируем роутер
	app.router = NewScreenRouter(app)
	app.registerCommands()
	app.initScreens(opts.Clipboard, logger.Component(log, "editor"))

	return app
}

// Init инициализирует приложение (Bubble Tea)
func (a *App) Init() tea.Cmd {
	a.currentScreen = EditorScreen

	if a.initialFile != "" {
		if err := a.openFile(a.initialFile); err != nil {
			a.handleError(err)
		}
	}

	if err := a.runner.CheckAvailable(); err != nil {
		a.log.Warn().Err(err).Msg("interpreter not found")
		a.editor.SetStatusError(fmt.Sprintf("%s not found on PATH; Run will fail", a.runner.Interpreter()))
	}

	cmds := []tea.Cmd{a.editor.Init()}
	if a.watcher != nil {
		cmds = append(cmds, waitForFileChange(a.watcher.Events()))
	}
	return tea.Batch(cmds...)
}

// Update обрабатывает сообщения (Bubble Tea)
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleGlobalKeys(msg)
	case tea.WindowSizeMsg:
		return a.handleWindowResize(msg)
	case ScreenSwitchMsg:
		return a.handleScreenSwitch(msg)
	case screens.BackMsg:
		return a, a.router.GoBack()
	case screens.CommandExecuteMsg:
		return a.handleCommandExecute(msg)
	case screens.FileChosenMsg:
		return a.handleFileChosen(msg)
	case runFinishedMsg:
		return a.handleRunFinished(msg)
	case confirmMsg:
		return a.handleConfirm(msg)
	case fileChangedMsg:
		return a.handleFileChanged(msg)
	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Передаем сообщение текущему экрану
	return a, a.forwardToScreen(msg)
}

// View отрисовывает приложение (Bubble Tea)
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	currentScreen := a.getCurrentScreen()
	if currentScreen == nil {
		return "Loading..."
	}

	view := currentScreen.View()
	if overlay := a.overlay(); overlay != "" && a.width > 0 && a.height > 1 {
		view = lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, overlay)
	} else if overlay != "" {
		view = overlay
	}

	// Добавляем статус-бар
	return fmt.Sprintf("%s\n%s", view, a.renderStatusBar())
}

// overlay возвращает верхнее видимое модальное окно.
func (a *App) overlay() string {
	switch {
	case a.report.Visible:
		return a.report.View(a.theme)
	case a.confirm.IsVisible():
		return a.confirm.View(a.theme)
	case a.prompt.Visible:
		return a.prompt.View(a.theme)
	}
	return ""
}

// getCurrentScreen возвращает текущий экран
func (a *App) getCurrentScreen() screens.Screen {
	return a.screens[a.currentScreen]
}

func (a *App) forwardToScreen(msg tea.Msg) tea.Cmd {
	currentScreen := a.getCurrentScreen()
	if currentScreen == nil {
		return nil
	}
	updatedScreen, cmd := currentScreen.Update(msg)
	a.screens[a.currentScreen] = updatedScreen
	return cmd
}

// initScreens создает все экраны сразу, их немного
func (a *App) initScreens(clip screens.Clipboard, editorLog zerolog.Logger) {
	a.editor = screens.NewEditorScreen(a.config, a.theme, a.session, editorLog)
	if clip != nil {
		a.editor.SetClipboard(clip)
	}
	a.screens[EditorScreen] = a.editor
	a.screens[OpenFileScreen] = screens.NewOpenFileScreen(a.theme, a.config.Editor.FileTypes)
	a.screens[CommandPaletteScreen] = screens.NewCommandPaletteScreen(a.theme, func() []screens.CommandEntry {
		return a.commands.Entries(a)
	})
	a.screens[HelpScreen] = screens.NewHelpScreen(a.theme, a.helpLines)
}

// handleWindowResize обрабатывает изменение размера окна
func (a *App) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width, a.height = msg.Width, msg.Height
	// Обновляем размеры в теме
	a.theme.SetDimensions(msg.Width, msg.Height)
	a.report.SetSize(msg.Width, msg.Height-1)
	a.prompt.SetWidth(msg.Width)

	// Экраны получают высоту без статус-бара
	inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-1, 1)}
	var cmds []tea.Cmd
	for screenType, screen := range a.screens {
		if screen != nil {
			updatedScreen, cmd := screen.Update(inner)
			a.screens[screenType] = updatedScreen
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// handleScreenSwitch обрабатывает переключение экранов
func (a *App) handleScreenSwitch(msg ScreenSwitchMsg) (tea.Model, tea.Cmd) {
	return a, a.activate(msg.ScreenType)
}

// activate синхронно переключает экран и возвращает его команду входа.
func (a *App) activate(screenType ScreenType) tea.Cmd {
	if screenType == a.currentScreen {
		return nil
	}
	// Выходим из текущего экрана
	var exitCmd tea.Cmd
	if currentScreen := a.getCurrentScreen(); currentScreen != nil {
		exitCmd = currentScreen.OnExit()
	}

	a.currentScreen = screenType
	if screenType == EditorScreen {
		a.router.ClearHistory()
	}

	// Входим в новый экран
	var enterCmd tea.Cmd
	if newScreen := a.getCurrentScreen(); newScreen != nil {
		enterCmd = newScreen.OnEnter()
	}
	return tea.Batch(exitCmd, enterCmd)
}

// renderStatusBar отрисовывает статус-бар
func (a *App) renderStatusBar() string {
	if a.running {
		return a.theme.StatusBar(fmt.Sprintf("%s Running %s… | Esc: Cancel", a.spinner.View(), a.runner.Interpreter()))
	}
	parts := []string{}
	if screen := a.getCurrentScreen(); screen != nil {
		if help := screen.ShortHelp(); help != "" {
			parts = append(parts, help)
		}
	}
	for _, id := range []string{"command_palette", "help", "quit"} {
		if cmd := a.commands.Get(id); cmd != nil && cmd.Key != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", displayKey(cmd.Key), cmd.Title))
		}
	}
	return a.theme.StatusBar(strings.Join(parts, " | "))
}

// helpLines собирает список команд для экрана помощи
func (a *App) helpLines() []string {
	lines := []string{"Commands", ""}
	menu := ""
	for _, cmd := range a.commands.All() {
		if cmd.Menu != menu {
			if menu != "" {
				lines = append(lines, "")
			}
			menu = cmd.Menu
			lines = append(lines, menu)
		}
		lines = append(lines, fmt.Sprintf("  %-16s %s", displayKey(cmd.Key), cmd.Title))
	}
	if full := a.editor.FullHelp(); len(full) > 0 {
		lines = append(lines, "", "Editing")
		for _, l := range full {
			lines = append(lines, "  "+l)
		}
	}
	return lines
}

// Session возвращает состояние редактора.
func (a *App) Session() *session.Session {
	return a.session
}

// Running сообщает, выполняется ли скрипт.
func (a *App) Running() bool {
	return a.running
}

// Сообщения для приложения

// ScreenSwitchMsg сообщение о переключении экрана
type ScreenSwitchMsg struct {
	ScreenType ScreenType
}

type runFinishedMsg struct {
	result *runner.Result
	err    error
}

type confirmAction int

const (
	confirmNew confirmAction = iota
	confirmOpen
	confirmQuit
)

type confirmMsg struct {
	action confirmAction
	ok     bool
}

type fileChangedMsg struct {
	event fs.FileChangeEvent
}
