package screens

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"pyedit/internal/ui/styles"
)

// FileChosenMsg сообщает путь, выбранный в диалоге открытия.
type FileChosenMsg struct {
	Path string
}

// OpenFileScreen диалог выбора файла для Open.
type OpenFileScreen struct {
	BaseScreen

	theme  *styles.Theme
	picker filepicker.Model
	notice string
}

// NewOpenFileScreen создаёт диалог; fileTypes ограничивает выбор (пусто = все файлы).
func NewOpenFileScreen(theme *styles.Theme, fileTypes []string) *OpenFileScreen {
	fp := filepicker.New()
	fp.AllowedTypes = fileTypes
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = true
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	return &OpenFileScreen{
		BaseScreen: NewBaseScreen("Open"),
		theme:      theme,
		picker:     fp,
	}
}

// SetDirectory задаёт каталог, с которого начнётся выбор.
func (ofs *OpenFileScreen) SetDirectory(dir string) {
	if dir != "" {
		ofs.picker.CurrentDirectory = dir
	}
}

func (ofs *OpenFileScreen) Init() tea.Cmd {
	return ofs.picker.Init()
}

func (ofs *OpenFileScreen) OnEnter() tea.Cmd {
	ofs.notice = ""
	return ofs.picker.Init()
}

func (ofs *OpenFileScreen) ShortHelp() string {
	return "↑↓ Move • Enter/→ Open • ← Up • Esc Cancel"
}

func (ofs *OpenFileScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if m, ok := msg.(tea.WindowSizeMsg); ok {
		ofs.SetSize(m.Width, m.Height)
	}
	if m, ok := msg.(tea.KeyMsg); ok && m.String() == "esc" {
		return ofs, back
	}

	var cmd tea.Cmd
	ofs.picker, cmd = ofs.picker.Update(msg)

	if ok, path := ofs.picker.DidSelectFile(msg); ok {
		chosen := filepath.Clean(path)
		return ofs, tea.Batch(cmd, func() tea.Msg { return FileChosenMsg{Path: chosen} })
	}
	if ok, path := ofs.picker.DidSelectDisabledFile(msg); ok {
		ofs.notice = filepath.Base(path) + " is not a Python file"
	}
	return ofs, cmd
}

func (ofs *OpenFileScreen) View() string {
	header := ofs.theme.TitleStyle.Render("Open") + "  " + ofs.theme.DimStyle.Render(ofs.picker.CurrentDirectory)
	view := header + "\n\n" + ofs.picker.View()
	if ofs.notice != "" {
		view += "\n" + ofs.theme.ErrorMessage(ofs.notice)
	}
	return view
}
