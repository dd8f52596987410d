package document

import (
	"fmt"
	"path/filepath"

	"pyedit/internal/history"
)

// Listener получает каждое применённое к документу редактирование.
type Listener func(history.Edit)

// Document хранит текст скрипта, путь к файлу и признак несохранённых изменений.
type Document struct {
	text      string
	path      string // "" для нового документа
	dirty     bool
	listeners []Listener
}

// New создаёт пустой безымянный документ.
func New() *Document {
	return &Document{}
}

// Text возвращает текущее содержимое.
func (d *Document) Text() string {
	return d.text
}

// Path возвращает привязанный путь или "".
func (d *Document) Path() string {
	return d.path
}

// Untitled сообщает, что документ ещё не привязан к файлу.
func (d *Document) Untitled() bool {
	return d.path == ""
}

// Dirty сообщает, было ли редактирование после последней загрузки/сохранения.
func (d *Document) Dirty() bool {
	return d.dirty
}

// Name возвращает имя файла для заголовков.
func (d *Document) Name() string {
	if d.path == "" {
		return "untitled"
	}
	return filepath.Base(d.path)
}

// Observe регистрирует слушателя изменений.
func (d *Document) Observe(l Listener) {
	if l == nil {
		return
	}
	d.listeners = append(d.listeners, l)
}

// Apply заменяет [Offset, Offset+len(Old)) на New и уведомляет слушателей.
// Old должен совпадать с текстом в этой позиции.
func (d *Document) Apply(e history.Edit) error {
	end := e.Offset + len(e.Old)
	if e.Offset < 0 || end > len(d.text) {
		return fmt.Errorf("edit out of range: offset %d, len %d, text len %d", e.Offset, len(e.Old), len(d.text))
	}
	if d.text[e.Offset:end] != e.Old {
		return fmt.Errorf("edit does not match text at offset %d", e.Offset)
	}
	if e.IsNoop() {
		return nil
	}
	d.text = d.text[:e.Offset] + e.New + d.text[end:]
	d.dirty = true
	for _, l := range d.listeners {
		l(e)
	}
	return nil
}

// Reset заменяет содержимое без записи в историю и привязывает путь.
// Используется для New и Open.
func (d *Document) Reset(text, path string) {
	d.text = text
	d.path = path
	d.dirty = false
}

// MarkSaved привязывает путь и сбрасывает dirty.
func (d *Document) MarkSaved(path string) {
	d.path = path
	d.dirty = false
}
