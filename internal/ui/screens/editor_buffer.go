package screens

import (
	"strings"

	"pyedit/internal/history"
)

type textPos struct {
	line int
	col  int
}

func (p textPos) before(o textPos) bool {
	return p.line < o.line || (p.line == o.line && p.col < o.col)
}

// textBuffer представление текста документа в редакторе: строки рун, курсор
// и якорь выделения. Сам текст не меняет: правки вычисляются здесь,
// применяются к документу, после чего буфер перечитывается.
// Окончание "\r\n" в lines не попадает, оно отмечено в crlf, поэтому курсор
// не может встать между '\r' и '\n'.
type textBuffer struct {
	lines  [][]rune
	crlf   []bool
	cursor textPos
	anchor *textPos
}

func newTextBuffer() *textBuffer {
	return &textBuffer{lines: [][]rune{{}}, crlf: []bool{false}}
}

func newTextBufferFromString(content string) *textBuffer {
	buf := newTextBuffer()
	buf.load(content)
	return buf
}

// load заменяет строки содержимым, удерживая курсор в допустимых границах.
func (b *textBuffer) load(content string) {
	parts := strings.Split(content, "\n")
	b.lines = make([][]rune, len(parts))
	b.crlf = make([]bool, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 && strings.HasSuffix(p, "\r") {
			p = strings.TrimSuffix(p, "\r")
			b.crlf[i] = true
		}
		b.lines[i] = []rune(p)
	}
	b.normalizeCursor()
	if b.anchor != nil {
		b.anchor.line = clamp(b.anchor.line, 0, len(b.lines)-1)
		b.anchor.col = clamp(b.anchor.col, 0, len(b.lines[b.anchor.line]))
	}
}

func (b *textBuffer) lineCount() int {
	return len(b.lines)
}

func (b *textBuffer) lineLength(line int) int {
	if line < 0 || line >= len(b.lines) {
		return 0
	}
	return len(b.lines[line])
}

// ending возвращает окончание строки line; у последней строки его нет.
func (b *textBuffer) ending(line int) string {
	switch {
	case line < 0 || line >= len(b.lines)-1:
		return ""
	case b.crlf[line]:
		return "\r\n"
	default:
		return "\n"
	}
}

// newline окончание, которое вставляет Enter: окончание текущей строки,
// а на последней строке "\r\n", если оно встречается в тексте.
func (b *textBuffer) newline() string {
	if e := b.ending(b.cursor.line); e != "" {
		return e
	}
	for _, crlf := range b.crlf {
		if crlf {
			return "\r\n"
		}
	}
	return "\n"
}

func (b *textBuffer) normalizeCursor() {
	b.cursor.line = clamp(b.cursor.line, 0, len(b.lines)-1)
	b.cursor.col = clamp(b.cursor.col, 0, b.lineLength(b.cursor.line))
}

// offsetOf переводит позицию в байтовое смещение в полном тексте.
func (b *textBuffer) offsetOf(pos textPos) int {
	offset := 0
	for i := 0; i < pos.line && i < len(b.lines); i++ {
		offset += len(string(b.lines[i])) + len(b.ending(i))
	}
	if pos.line < len(b.lines) {
		line := b.lines[pos.line]
		col := clamp(pos.col, 0, len(line))
		offset += len(string(line[:col]))
	}
	return offset
}

// posAt переводит байтовое смещение обратно в строку и колонку.
func (b *textBuffer) posAt(offset int) textPos {
	if offset < 0 {
		return textPos{}
	}
	for i, line := range b.lines {
		size := len(string(line))
		if offset <= size {
			col := len([]rune(string(line)[:offset]))
			return textPos{line: i, col: col}
		}
		term := len(b.ending(i))
		if offset < size+term {
			// внутри "\r\n"
			return textPos{line: i, col: len(line)}
		}
		offset -= size + term
	}
	last := len(b.lines) - 1
	return textPos{line: last, col: len(b.lines[last])}
}

func (b *textBuffer) moveCursorTo(line, col int) {
	b.cursor.line = line
	b.cursor.col = col
	b.normalizeCursor()
}

func (b *textBuffer) moveCursorToOffset(offset int) {
	b.cursor = b.posAt(offset)
}

func (b *textBuffer) moveCursorLeft() {
	if b.cursor.col > 0 {
		b.cursor.col--
		return
	}
	if b.cursor.line > 0 {
		b.cursor.line--
		b.cursor.col = len(b.lines[b.cursor.line])
	}
}

func (b *textBuffer) moveCursorRight() {
	if b.cursor.col < len(b.lines[b.cursor.line]) {
		b.cursor.col++
		return
	}
	if b.cursor.line < len(b.lines)-1 {
		b.cursor.line++
		b.cursor.col = 0
	}
}

func (b *textBuffer) moveCursorUp() {
	if b.cursor.line == 0 {
		b.cursor.col = 0
		return
	}
	b.cursor.line--
	b.cursor.col = min(b.cursor.col, len(b.lines[b.cursor.line]))
}

func (b *textBuffer) moveCursorDown() {
	if b.cursor.line >= len(b.lines)-1 {
		b.cursor.col = len(b.lines[len(b.lines)-1])
		return
	}
	b.cursor.line++
	b.cursor.col = min(b.cursor.col, len(b.lines[b.cursor.line]))
}

func (b *textBuffer) setAnchor() {
	pos := b.cursor
	b.anchor = &pos
}

func (b *textBuffer) clearAnchor() {
	b.anchor = nil
}

func (b *textBuffer) hasSelection() bool {
	if b.anchor == nil {
		return false
	}
	return *b.anchor != b.cursor
}

func (b *textBuffer) selectionRange() (textPos, textPos) {
	if !b.hasSelection() {
		return b.cursor, b.cursor
	}
	start := *b.anchor
	end := b.cursor
	if end.before(start) {
		start, end = end, start
	}
	return start, end
}

func (b *textBuffer) selectedText() string {
	if !b.hasSelection() {
		return ""
	}
	start, end := b.selectionRange()
	if start.line == end.line {
		return string(b.lines[start.line][start.col:end.col])
	}
	var builder strings.Builder
	builder.WriteString(string(b.lines[start.line][start.col:]))
	builder.WriteString(b.ending(start.line))
	for line := start.line + 1; line < end.line; line++ {
		builder.WriteString(string(b.lines[line]))
		builder.WriteString(b.ending(line))
	}
	builder.WriteString(string(b.lines[end.line][:end.col]))
	return builder.String()
}

// selectAll ставит якорь в начало, курсор в конец текста.
func (b *textBuffer) selectAll() {
	b.anchor = &textPos{}
	last := len(b.lines) - 1
	b.cursor = textPos{line: last, col: len(b.lines[last])}
}

// insertEdit заменяет выделение на text или вставляет его в позицию курсора.
func (b *textBuffer) insertEdit(text string) history.Edit {
	if b.hasSelection() {
		start, _ := b.selectionRange()
		return history.Edit{Offset: b.offsetOf(start), Old: b.selectedText(), New: text}
	}
	return history.Edit{Offset: b.offsetOf(b.cursor), New: text}
}

// deleteSelectionEdit удаляет выделение; без выделения ok == false.
func (b *textBuffer) deleteSelectionEdit() (history.Edit, bool) {
	if !b.hasSelection() {
		return history.Edit{}, false
	}
	start, _ := b.selectionRange()
	return history.Edit{Offset: b.offsetOf(start), Old: b.selectedText()}, true
}

// backspaceEdit удаляет выделение или руну перед курсором.
func (b *textBuffer) backspaceEdit() (history.Edit, bool) {
	if e, ok := b.deleteSelectionEdit(); ok {
		return e, true
	}
	if b.cursor.col > 0 {
		r := b.lines[b.cursor.line][b.cursor.col-1]
		start := textPos{line: b.cursor.line, col: b.cursor.col - 1}
		return history.Edit{Offset: b.offsetOf(start), Old: string(r)}, true
	}
	if b.cursor.line == 0 {
		return history.Edit{}, false
	}
	term := b.ending(b.cursor.line - 1)
	return history.Edit{Offset: b.offsetOf(b.cursor) - len(term), Old: term}, true
}

// deleteForwardEdit удаляет выделение или руну под курсором.
func (b *textBuffer) deleteForwardEdit() (history.Edit, bool) {
	if e, ok := b.deleteSelectionEdit(); ok {
		return e, true
	}
	line := b.lines[b.cursor.line]
	if b.cursor.col < len(line) {
		return history.Edit{Offset: b.offsetOf(b.cursor), Old: string(line[b.cursor.col])}, true
	}
	if b.cursor.line >= len(b.lines)-1 {
		return history.Edit{}, false
	}
	return history.Edit{Offset: b.offsetOf(b.cursor), Old: b.ending(b.cursor.line)}, true
}

func (b *textBuffer) fullText() string {
	var builder strings.Builder
	for i, line := range b.lines {
		builder.WriteString(string(line))
		builder.WriteString(b.ending(i))
	}
	return builder.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
