package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"pyedit/internal/config"
	"pyedit/internal/history"
	"pyedit/internal/session"
	"pyedit/internal/ui/styles"
)

// Clipboard системный буфер обмена.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(s string) error  { return clipboard.WriteAll(s) }

// SystemClipboard возвращает буфер обмена ОС.
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
	statusSuccess
)

// EditorScreen редактирует текст документа сессии.
type EditorScreen struct {
	BaseScreen

	cfg     *config.Config
	theme   *styles.Theme
	session *session.Session
	log     zerolog.Logger

	buffer    *textBuffer
	clipboard Clipboard
	fallback  string // если системный буфер обмена недоступен

	status     string
	statusKind statusKind
	statusAt   time.Time

	scrollOffset     int
	horizontalOffset int
}

// NewEditorScreen создаёт экран редактора над документом сессии.
func NewEditorScreen(cfg *config.Config, theme *styles.Theme, s *session.Session, log zerolog.Logger) *EditorScreen {
	es := &EditorScreen{
		BaseScreen: NewBaseScreen("Editor"),
		cfg:        cfg,
		theme:      theme,
		session:    s,
		log:        log,
		buffer:     newTextBufferFromString(s.Document().Text()),
		clipboard:  SystemClipboard(),
	}
	return es
}

// SetClipboard заменяет буфер обмена (используется в тестах).
func (es *EditorScreen) SetClipboard(c Clipboard) {
	es.clipboard = c
}

func (es *EditorScreen) Init() tea.Cmd {
	return nil
}

// Update обрабатывает клавиши редактирования и изменение размера.
func (es *EditorScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		es.SetSize(m.Width, m.Height)
		es.ensureCursorVisible()
		return es, nil
	case tea.KeyMsg:
		es.handleKey(m)
		return es, nil
	}
	return es, nil
}

// Title возвращает заголовок окна.
func (es *EditorScreen) Title() string {
	return es.session.Title()
}

// ShortHelp возвращает краткую справку.
func (es *EditorScreen) ShortHelp() string {
	return "Ctrl+C/X/V Copy/Cut/Paste • Ctrl+A Select all"
}

// FullHelp возвращает полную справку.
func (es *EditorScreen) FullHelp() []string {
	return []string{
		"Editor:",
		"  Arrows, Home/End, PgUp/PgDn - Move cursor",
		"  Shift+movement - Select",
		"  Ctrl+A - Select all",
		"  Ctrl+C/Ctrl+X/Ctrl+V - Copy/Cut/Paste",
		"  Tab - Insert indentation",
		"  Esc - Clear selection, cancel a running script",
	}
}

// Reload перечитывает текст документа и ставит курсор в начало.
// Вызывается после New/Open.
func (es *EditorScreen) Reload() {
	es.buffer = newTextBufferFromString(es.session.Document().Text())
	es.scrollOffset = 0
	es.horizontalOffset = 0
	es.ensureCursorVisible()
}

// Undo отменяет последнее изменение и ставит курсор на место правки.
func (es *EditorScreen) Undo() bool {
	if !es.session.Undo() {
		es.SetStatus("Nothing to undo")
		return false
	}
	if e, ok := es.session.History().PeekRedo(); ok {
		es.sync(e.Offset + len(e.Old))
	}
	return true
}

// Redo повторяет отменённое изменение.
func (es *EditorScreen) Redo() bool {
	if !es.session.Redo() {
		es.SetStatus("Nothing to redo")
		return false
	}
	if e, ok := es.session.History().Peek(); ok {
		es.sync(e.Offset + len(e.New))
	}
	return true
}

// Text возвращает текст в том виде, как его видит редактор.
func (es *EditorScreen) Text() string {
	return es.buffer.fullText()
}

// Cursor возвращает позицию курсора (строка и колонка с нуля).
func (es *EditorScreen) Cursor() (line, col int) {
	return es.buffer.cursor.line, es.buffer.cursor.col
}

// SetStatus показывает информационное сообщение в футере.
func (es *EditorScreen) SetStatus(msg string) {
	es.setStatus(msg, statusInfo)
}

// SetStatusError показывает ошибку в футере.
func (es *EditorScreen) SetStatusError(msg string) {
	es.setStatus(msg, statusError)
}

// SetStatusSuccess показывает сообщение об успехе в футере.
func (es *EditorScreen) SetStatusSuccess(msg string) {
	es.setStatus(msg, statusSuccess)
}

// Status возвращает текст последнего сообщения.
func (es *EditorScreen) Status() string {
	return es.status
}

func (es *EditorScreen) setStatus(msg string, kind statusKind) {
	es.status = msg
	es.statusKind = kind
	es.statusAt = time.Now()
}

// SetTheme применяет тему к экрану.
func (es *EditorScreen) SetTheme(theme *styles.Theme) {
	es.theme = theme
}

func (es *EditorScreen) handleKey(msg tea.KeyMsg) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		es.copySelection()
		return
	case "ctrl+x":
		es.cutSelection()
		return
	case "ctrl+v":
		es.pasteClipboard()
		return
	case "ctrl+a":
		es.buffer.selectAll()
		es.ensureCursorVisible()
		return
	case "tab":
		es.insertText(es.indent())
		return
	case "enter":
		es.apply(es.buffer.insertEdit(es.buffer.newline()))
		return
	case "backspace":
		if e, ok := es.buffer.backspaceEdit(); ok {
			es.apply(e)
		}
		return
	case "delete":
		if e, ok := es.buffer.deleteForwardEdit(); ok {
			es.apply(e)
		}
		return
	case "esc":
		es.buffer.clearAnchor()
		return
	}

	if es.handleMovement(key) {
		return
	}

	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			es.insertText(string(msg.Runes))
		}
	case tea.KeySpace:
		es.insertText(" ")
	}
}

func (es *EditorScreen) handleMovement(key string) bool {
	selecting := strings.HasPrefix(key, "shift+")
	base := strings.TrimPrefix(key, "shift+")

	var move func()
	switch base {
	case "left":
		move = es.buffer.moveCursorLeft
	case "right":
		move = es.buffer.moveCursorRight
	case "up":
		move = es.buffer.moveCursorUp
	case "down":
		move = es.buffer.moveCursorDown
	case "home":
		move = func() { es.buffer.moveCursorTo(es.buffer.cursor.line, 0) }
	case "end":
		move = func() {
			line := es.buffer.cursor.line
			es.buffer.moveCursorTo(line, es.buffer.lineLength(line))
		}
	case "pgup":
		move = func() {
			es.buffer.moveCursorTo(es.buffer.cursor.line-es.bodyHeight(), es.buffer.cursor.col)
		}
	case "pgdown":
		move = func() {
			es.buffer.moveCursorTo(es.buffer.cursor.line+es.bodyHeight(), es.buffer.cursor.col)
		}
	case "ctrl+home":
		move = func() { es.buffer.moveCursorTo(0, 0) }
	case "ctrl+end":
		move = func() {
			last := es.buffer.lineCount() - 1
			es.buffer.moveCursorTo(last, es.buffer.lineLength(last))
		}
	default:
		return false
	}

	if selecting && es.buffer.anchor == nil {
		es.buffer.setAnchor()
	}
	if !selecting {
		es.buffer.clearAnchor()
	}
	move()
	es.ensureCursorVisible()
	return true
}

func (es *EditorScreen) indent() string {
	size := es.cfg.Editor.TabSize
	if size <= 0 {
		size = 4
	}
	if es.cfg.Editor.UseSpaces {
		return strings.Repeat(" ", size)
	}
	return "\t"
}

func (es *EditorScreen) insertText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return
	}
	if nl := es.buffer.newline(); nl != "\n" {
		text = strings.ReplaceAll(text, "\n", nl)
	}
	es.apply(es.buffer.insertEdit(text))
}

// apply отправляет правку в сессию (она попадает в историю) и синхронизирует буфер.
func (es *EditorScreen) apply(e history.Edit) {
	if err := es.session.Edit(e); err != nil {
		es.log.Error().Err(err).Int("offset", e.Offset).Msg("edit rejected")
		es.SetStatusError(fmt.Sprintf("Edit failed: %v", err))
		es.buffer.load(es.session.Document().Text())
		return
	}
	es.buffer.clearAnchor()
	es.sync(e.Offset + len(e.New))
}

func (es *EditorScreen) sync(cursorOffset int) {
	es.buffer.clearAnchor()
	es.buffer.load(es.session.Document().Text())
	es.buffer.moveCursorToOffset(cursorOffset)
	es.ensureCursorVisible()
}

func (es *EditorScreen) copySelection() {
	text := es.buffer.selectedText()
	if text == "" {
		return
	}
	es.writeClipboard(text)
	es.SetStatus("Copied")
}

func (es *EditorScreen) cutSelection() {
	e, ok := es.buffer.deleteSelectionEdit()
	if !ok {
		return
	}
	es.writeClipboard(e.Old)
	es.apply(e)
	es.SetStatus("Cut")
}

func (es *EditorScreen) pasteClipboard() {
	text, err := es.clipboard.ReadAll()
	if err != nil {
		es.log.Debug().Err(err).Msg("system clipboard unavailable")
		text = es.fallback
	}
	es.insertText(text)
}

func (es *EditorScreen) writeClipboard(text string) {
	es.fallback = text
	if err := es.clipboard.WriteAll(text); err != nil {
		es.log.Debug().Err(err).Msg("system clipboard unavailable")
	}
}

func (es *EditorScreen) ensureCursorVisible() {
	line := es.buffer.cursor.line
	if line < es.scrollOffset {
		es.scrollOffset = line
	}
	if h := es.bodyHeight(); h > 0 && line >= es.scrollOffset+h {
		es.scrollOffset = line - h + 1
	}
	col := es.buffer.cursor.col
	if col < es.horizontalOffset {
		es.horizontalOffset = col
		return
	}
	// ширина считается в ячейках терминала, как в renderLine
	text := es.buffer.lines[line]
	cursorWidth := 1
	if col < len(text) {
		cursorWidth = max(runewidth.RuneWidth(displayRune(text[col])), 1)
	}
	available := es.contentWidth()
	for es.horizontalOffset < col && cellWidth(text[es.horizontalOffset:col])+cursorWidth > available {
		es.horizontalOffset++
	}
}

func cellWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		w += runewidth.RuneWidth(displayRune(r))
	}
	return w
}
