// Package session хранит состояние редактора, с которым работают обработчики
// команд: документ, его историю правок и активную тему.
package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"pyedit/internal/document"
	"pyedit/internal/files"
	"pyedit/internal/history"
	"pyedit/internal/runner"
)

// AppTitle префикс заголовка окна.
const AppTitle = "Python IDE"

// Имена тем.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrNoPath возвращает Save для документа без пути.
// Вызывающий переходит к Save As.
var ErrNoPath = errors.New("document has no path")

// State состояние диспетчера: привязан ли документ к пути и есть ли изменения.
type State struct {
	Bound bool
	Dirty bool
}

func (s State) String() string {
	bound, dirty := "Untitled", "Clean"
	if s.Bound {
		bound = "Bound"
	}
	if s.Dirty {
		dirty = "Dirty"
	}
	return bound + "/" + dirty
}

// Options настройки новой сессии.
type Options struct {
	MaxHistory int
	Theme      string
	Logger     zerolog.Logger
}

// Session единственный владелец состояния редактора. Не потокобезопасна:
// все вызовы идут из цикла UI.
type Session struct {
	doc       *document.Document
	hist      *history.History
	theme     string
	replaying bool
	lastRun   *runner.Result
	log       zerolog.Logger
}

// New создаёт сессию с пустым безымянным документом.
func New(opts Options) *Session {
	s := &Session{
		doc:   document.New(),
		hist:  history.New(opts.MaxHistory),
		theme: ThemeLight,
		log:   opts.Logger,
	}
	if opts.Theme == ThemeDark {
		s.theme = ThemeDark
	}
	s.doc.Observe(s.record)
	return s
}

func (s *Session) record(e history.Edit) {
	if s.replaying {
		return
	}
	s.hist.Record(e)
}

// Document возвращает текущий документ.
func (s *Session) Document() *document.Document {
	return s.doc
}

// History возвращает историю правок.
func (s *Session) History() *history.History {
	return s.hist
}

// State возвращает состояние диспетчера.
func (s *Session) State() State {
	return State{Bound: !s.doc.Untitled(), Dirty: s.doc.Dirty()}
}

// Title возвращает "Python IDE - <path>", со "*" в начале при изменениях.
func (s *Session) Title() string {
	title := AppTitle
	if p := s.doc.Path(); p != "" {
		title += " - " + p
	}
	if s.doc.Dirty() {
		title = "*" + title
	}
	return title
}

// Edit применяет правку пользователя к документу; история её запоминает.
func (s *Session) Edit(e history.Edit) error {
	return s.doc.Apply(e)
}

// Undo отменяет последнюю правку. false, если отменять нечего.
func (s *Session) Undo() bool {
	s.replaying = true
	defer func() { s.replaying = false }()
	return s.hist.Undo(s.doc)
}

// Redo повторяет последнюю отменённую правку.
func (s *Session) Redo() bool {
	s.replaying = true
	defer func() { s.replaying = false }()
	return s.hist.Redo(s.doc)
}

// NewDocument отбрасывает буфер и начинает чистый безымянный документ.
func (s *Session) NewDocument() {
	s.doc.Reset("", "")
	s.hist.Clear()
	s.log.Debug().Msg("new document")
}

// Open заменяет буфер содержимым path. При ошибке текущий документ
// не меняется.
func (s *Session) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	text, err := files.Read(abs)
	if err != nil {
		return err
	}
	s.doc.Reset(text, abs)
	s.hist.Clear()
	s.log.Info().Str("path", abs).Int("bytes", len(text)).Msg("opened")
	return nil
}

// Save пишет документ по его пути. Для безымянного документа возвращает
// ErrNoPath.
func (s *Session) Save() error {
	if s.doc.Untitled() {
		return ErrNoPath
	}
	return s.writeTo(s.doc.Path())
}

// SaveAs пишет документ в path и привязывает его к этому пути.
func (s *Session) SaveAs(path string) error {
	if path == "" {
		return ErrNoPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	return s.writeTo(abs)
}

func (s *Session) writeTo(path string) error {
	if err := files.Write(path, s.doc.Text()); err != nil {
		return err
	}
	s.doc.MarkSaved(path)
	s.log.Info().Str("path", path).Msg("saved")
	return nil
}

// Theme возвращает имя активной темы.
func (s *Session) Theme() string {
	return s.theme
}

// SetTheme переключает тему и сообщает, изменилась ли она.
func (s *Session) SetTheme(name string) bool {
	if name != ThemeLight && name != ThemeDark {
		return false
	}
	if name == s.theme {
		return false
	}
	s.theme = name
	return true
}

// ToggleTheme переключает светлую и тёмную тему и возвращает новое имя.
func (s *Session) ToggleTheme() string {
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme
}

// SetLastRun запоминает результат последнего запуска.
func (s *Session) SetLastRun(r *runner.Result) {
	s.lastRun = r
}

// LastRun возвращает результат последнего запуска, если он был.
func (s *Session) LastRun() *runner.Result {
	return s.lastRun
}
