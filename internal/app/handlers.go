package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/apperr"
	"pyedit/internal/fs"
	"pyedit/internal/platform"
	"pyedit/internal/runner"
	"pyedit/internal/session"
	"pyedit/internal/ui/components"
	"pyedit/internal/ui/screens"
)

// selfWriteQuiet подавляет события watcher'а от собственного сохранения
const selfWriteQuiet = time.Second

// handleGlobalKeys обрабатывает глобальные горячие клавиши
func (a *App) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rawKey := msg.String()

	// Модальные окна перехватывают все клавиши
	switch {
	case a.report.Visible:
		_, cmd := a.report.Update(msg)
		return a, cmd
	case a.confirm.IsVisible():
		return a, a.confirm.Update(msg)
	case a.prompt.Visible:
		return a.handlePromptKey(msg)
	}

	if a.running && platform.MatchesKey(rawKey, "esc") {
		a.cancelRun()
		a.editor.SetStatus("Cancelling run…")
		return a, nil
	}

	// Сначала пытаемся найти команду через реестр
	if cmd := a.commands.Resolve(rawKey, a.currentScreen); cmd != nil {
		if a.commands.IsEnabled(cmd, a) {
			return a, cmd.Run(a)
		}
		return a, nil
	}

	// Если глобальные клавиши не обработаны, передаем экрану
	return a, a.forwardToScreen(msg)
}

func (a *App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := a.prompt.Update(msg)
	switch result {
	case components.PromptSubmitted:
		a.finishSaveAs(a.prompt.Value())
	case components.PromptCancelled:
		a.editor.SetStatus("Save cancelled")
	}
	return a, cmd
}

func (a *App) handleCommandExecute(msg screens.CommandExecuteMsg) (tea.Model, tea.Cmd) {
	// Команды палитры выполняются в контексте редактора
	switchCmd := a.activate(EditorScreen)
	return a, tea.Batch(switchCmd, a.commands.Run(msg.ID, a))
}

func (a *App) handleFileChosen(msg screens.FileChosenMsg) (tea.Model, tea.Cmd) {
	switchCmd := a.activate(EditorScreen)
	if err := a.openFile(msg.Path); err != nil {
		a.handleError(err)
	}
	return a, switchCmd
}

func (a *App) handleConfirm(msg confirmMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return a, nil
	}
	switch msg.action {
	case confirmNew:
		a.newDocument()
	case confirmOpen:
		return a, a.showOpen()
	case confirmQuit:
		return a.quit()
	}
	return a, nil
}

func (a *App) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	if msg.event.Path == a.session.Document().Path() {
		a.editor.SetStatusError(fmt.Sprintf("%s changed on disk (%s)", filepath.Base(msg.event.Path), msg.event.Operation))
	}
	if a.watcher == nil {
		return a, nil
	}
	return a, waitForFileChange(a.watcher.Events())
}

// handleError единая точка показа ошибок пользователю
func (a *App) handleError(err error) {
	if err == nil {
		return
	}
	kind := apperr.KindOf(err)
	a.log.Error().Err(err).Str("kind", kind.String()).Msg("operation failed")

	switch kind {
	case apperr.FileRead:
		a.report.Show("Open failed", err.Error(), components.ReportError)
	case apperr.FileWrite:
		a.report.Show("Save failed", err.Error(), components.ReportError)
	case apperr.ProcessSpawn, apperr.StreamRead:
		body := fmt.Sprintf("The script could not be run with %q.\n\n%v", a.runner.Interpreter(), err)
		a.report.Show("Run failed", body, components.ReportError)
	default:
		a.report.Show("Error", err.Error(), components.ReportError)
	}
}

// requestNew создает новый документ, спрашивая про несохраненные изменения
func (a *App) requestNew() tea.Cmd {
	if a.session.Document().Dirty() {
		return a.ask("Discard changes?", "The current script has unsaved changes. Start a new one?", confirmNew)
	}
	a.newDocument()
	return nil
}

func (a *App) newDocument() {
	a.session.NewDocument()
	a.editor.Reload()
	a.follow("")
	a.editor.SetStatus("New script")
}

func (a *App) requestOpen() tea.Cmd {
	if a.session.Document().Dirty() {
		return a.ask("Discard changes?", "The current script has unsaved changes. Open another file?", confirmOpen)
	}
	return a.showOpen()
}

func (a *App) showOpen() tea.Cmd {
	if picker, ok := a.screens[OpenFileScreen].(*screens.OpenFileScreen); ok {
		if path := a.session.Document().Path(); path != "" {
			picker.SetDirectory(filepath.Dir(path))
		}
	}
	return a.router.SwitchTo(OpenFileScreen)
}

// openFile загружает файл в сессию и начинает следить за ним
func (a *App) openFile(path string) error {
	if err := a.session.Open(path); err != nil {
		return err
	}
	a.editor.Reload()
	a.follow(a.session.Document().Path())
	a.editor.SetStatus("Opened " + a.session.Document().Name())
	return nil
}

func (a *App) save() tea.Cmd {
	a.quietWatcher()
	err := a.session.Save()
	if errors.Is(err, session.ErrNoPath) {
		return a.saveAs()
	}
	if err != nil {
		a.handleError(err)
		return nil
	}
	a.editor.SetStatusSuccess("Saved " + a.session.Document().Name())
	return nil
}

func (a *App) saveAs() tea.Cmd {
	initial := a.session.Document().Path()
	if initial == "" {
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		initial = filepath.Join(dir, "untitled.py")
	}
	return a.prompt.Show("Save As", initial)
}

func (a *App) finishSaveAs(path string) {
	a.quietWatcher()
	if err := a.session.SaveAs(path); err != nil {
		a.handleError(err)
		return
	}
	a.follow(a.session.Document().Path())
	a.editor.SetStatusSuccess("Saved " + a.session.Document().Name())
}

func (a *App) requestQuit() tea.Cmd {
	if a.session.Document().Dirty() {
		return a.ask("Quit?", "The current script has unsaved changes. Quit anyway?", confirmQuit)
	}
	_, cmd := a.quit()
	return cmd
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.running && a.cancelRun != nil {
		a.cancelRun()
	}
	a.quitting = true
	return a, tea.Quit
}

func (a *App) ask(title, description string, action confirmAction) tea.Cmd {
	a.confirm.Title = title
	a.confirm.Description = description
	return a.confirm.Ask(func(ok bool) tea.Msg {
		return confirmMsg{action: action, ok: ok}
	})
}

// runCode запускает снимок текста в отдельной горутине
func (a *App) runCode() tea.Cmd {
	if a.running {
		a.editor.SetStatus("A script is already running")
		return nil
	}
	code := a.session.Document().Text()
	ctx, cancel := context.WithCancel(a.ctx)
	a.running = true
	a.cancelRun = cancel
	r := a.runner
	a.log.Debug().Str("interpreter", r.Interpreter()).Int("bytes", len(code)).Msg("run requested")

	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		result, err := r.Run(ctx, code)
		return runFinishedMsg{result: result, err: err}
	})
}

func (a *App) handleRunFinished(msg runFinishedMsg) (tea.Model, tea.Cmd) {
	a.running = false
	if a.cancelRun != nil {
		a.cancelRun()
		a.cancelRun = nil
	}

	switch {
	case errors.Is(msg.err, context.Canceled):
		a.editor.SetStatus("Run cancelled")
		return a, nil
	case errors.Is(msg.err, context.DeadlineExceeded):
		a.editor.SetStatusError(fmt.Sprintf("Run timed out after %s", a.config.Runner.Timeout))
		return a, nil
	case msg.err != nil:
		a.handleError(msg.err)
		return a, nil
	}

	res := msg.result
	a.session.SetLastRun(res)
	kind := components.ReportInfo
	if res.Kind == runner.Errors {
		kind = components.ReportError
	}
	a.report.Show(res.Title(), res.Text, kind)
	return a, nil
}

func (a *App) applyTheme(name string) {
	a.session.SetTheme(name)
	a.theme.Apply(a.session.Theme())
	a.editor.SetTheme(a.theme)
	a.log.Debug().Str("theme", a.theme.Name()).Msg("theme applied")
}

func (a *App) showAbout() {
	version := a.version
	if version == "" {
		version = "dev"
	}
	body := fmt.Sprintf("%s %s\n\nA small editor for Python scripts.\nInterpreter: %s",
		session.AppTitle, version, a.runner.Interpreter())
	a.report.Show("About", body, components.ReportInfo)
}

func (a *App) follow(path string) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Follow(path); err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("cannot watch file")
	}
}

func (a *App) quietWatcher() {
	if a.watcher != nil {
		a.watcher.Quiet(selfWriteQuiet)
	}
}

func waitForFileChange(events <-chan fs.FileChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return fileChangedMsg{event: ev}
	}
}

func displayKey(key string) string {
	if key == "" {
		return "-"
	}
	return platform.DisplayKey(key)
}
