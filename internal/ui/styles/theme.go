package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme содержит все стили приложения
type Theme struct {
	// Размеры экрана
	width  int
	height int

	name   string
	colors ColorScheme

	// Стили компонентов
	EditorStyle        lipgloss.Style
	HeaderStyle        lipgloss.Style
	StatusBarStyle     lipgloss.Style
	TitleStyle         lipgloss.Style
	SubtitleStyle      lipgloss.Style
	TextStyle          lipgloss.Style
	DimStyle           lipgloss.Style
	ErrorStyle         lipgloss.Style
	SuccessStyle       lipgloss.Style
	LineNumberStyle    lipgloss.Style
	ActiveLineNumber   lipgloss.Style
	CurrentLineStyle   lipgloss.Style
	SelectionStyle     lipgloss.Style
	CursorStyle        lipgloss.Style
	DialogStyle        lipgloss.Style
	DialogErrorStyle   lipgloss.Style
	SelectedEntryStyle lipgloss.Style
}

// ColorScheme цветовая схема
type ColorScheme struct {
	Foreground string
	Background string
	Surface    string
	TextDim    string
	Accent     string
	Selection  string
	Error      string
	Success    string
	Border     string
}

// Предустановленные цветовые схемы. Светлая: чёрный текст на белом,
// тёмная: белый на чёрном.
var (
	LightScheme = ColorScheme{
		Foreground: "#000000",
		Background: "#FFFFFF",
		Surface:    "#E2E8F0",
		TextDim:    "#64748B",
		Accent:     "#2563EB",
		Selection:  "#BFDBFE",
		Error:      "#DC2626",
		Success:    "#059669",
		Border:     "#94A3B8",
	}

	DarkScheme = ColorScheme{
		Foreground: "#FFFFFF",
		Background: "#000000",
		Surface:    "#1E293B",
		TextDim:    "#94A3B8",
		Accent:     "#F59E0B",
		Selection:  "#334155",
		Error:      "#EF4444",
		Success:    "#10B981",
		Border:     "#475569",
	}
)

// Имена тем
const (
	Light = "light"
	Dark  = "dark"
)

// NewTheme создает тему по имени; неизвестное имя даёт светлую тему.
func NewTheme(themeName string) *Theme {
	theme := &Theme{}
	theme.Apply(themeName)
	return theme
}

// Apply переключает цветовую схему, сохраняя размеры экрана.
func (t *Theme) Apply(themeName string) {
	switch themeName {
	case Dark:
		t.name = Dark
		t.colors = DarkScheme
	default:
		t.name = Light
		t.colors = LightScheme
	}
	t.initStyles()
}

// Name возвращает имя активной схемы.
func (t *Theme) Name() string {
	return t.name
}

// Colors возвращает активную схему.
func (t *Theme) Colors() ColorScheme {
	return t.colors
}

// Pair возвращает пару цветов текста и фона редактора.
func (t *Theme) Pair() (foreground, background string) {
	return t.colors.Foreground, t.colors.Background
}

// initStyles инициализирует стили
func (t *Theme) initStyles() {
	c := t.colors
	fg := lipgloss.Color(c.Foreground)
	bg := lipgloss.Color(c.Background)

	t.EditorStyle = lipgloss.NewStyle().
		Foreground(fg).
		Background(bg)

	t.HeaderStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(c.Surface)).
		Foreground(fg).
		Bold(true).
		Padding(0, 1)

	t.StatusBarStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(c.Surface)).
		Foreground(fg).
		Padding(0, 1)

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Accent)).
		Bold(true)

	t.SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.TextDim))

	t.TextStyle = lipgloss.NewStyle().
		Foreground(fg)

	t.DimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.TextDim))

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Error)).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Success)).
		Bold(true)

	t.LineNumberStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.TextDim)).
		Background(bg)

	t.ActiveLineNumber = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Accent)).
		Background(bg).
		Bold(true)

	t.CurrentLineStyle = lipgloss.NewStyle().
		Foreground(fg).
		Background(lipgloss.Color(c.Surface))

	t.SelectionStyle = lipgloss.NewStyle().
		Foreground(fg).
		Background(lipgloss.Color(c.Selection))

	t.CursorStyle = lipgloss.NewStyle().
		Foreground(bg).
		Background(fg)

	t.DialogStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.Border)).
		Foreground(fg).
		Background(bg).
		Padding(1, 2)

	t.DialogErrorStyle = t.DialogStyle.
		BorderForeground(lipgloss.Color(c.Error))

	t.SelectedEntryStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Accent)).
		Bold(true)
}

// SetDimensions устанавливает размеры экрана
func (t *Theme) SetDimensions(width, height int) {
	t.width = width
	t.height = height
}

// Width возвращает ширину экрана
func (t *Theme) Width() int {
	return t.width
}

// Height возвращает высоту экрана
func (t *Theme) Height() int {
	return t.height
}

// StatusBar рендерит статус-бар
func (t *Theme) StatusBar(text string) string {
	return t.StatusBarStyle.
		Width(t.width).
		MaxHeight(1).
		Render(text)
}

// Header рендерит заголовок окна
func (t *Theme) Header(text string) string {
	return t.HeaderStyle.
		Width(t.width).
		Render(text)
}

// ErrorMessage рендерит сообщение об ошибке
func (t *Theme) ErrorMessage(text string) string {
	return t.ErrorStyle.Render(text)
}

// SuccessMessage рендерит сообщение об успехе
func (t *Theme) SuccessMessage(text string) string {
	return t.SuccessStyle.Render("✓ " + text)
}
