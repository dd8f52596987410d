package screens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/history"
)

func applyEdit(text string, e history.Edit) string {
	return text[:e.Offset] + e.New + text[e.Offset+len(e.Old):]
}

func TestLoadKeepsLineStructure(t *testing.T) {
	for _, text := range []string{"", "a", "a\n", "a\nb", "\n\n", "x = 'é'\nprint(x)\n"} {
		buf := newTextBufferFromString(text)
		assert.Equal(t, text, buf.fullText(), "text %q", text)
	}
	assert.Equal(t, 3, newTextBufferFromString("a\nb\n").lineCount())
}

func TestOffsetsRoundTrip(t *testing.T) {
	text := "héllo\nwörld\n\nend"
	buf := newTextBufferFromString(text)
	for line := 0; line < buf.lineCount(); line++ {
		for col := 0; col <= buf.lineLength(line); col++ {
			pos := textPos{line: line, col: col}
			assert.Equal(t, pos, buf.posAt(buf.offsetOf(pos)))
		}
	}
	assert.Equal(t, len("héllo\n"), buf.offsetOf(textPos{line: 1}))
	assert.Equal(t, len(text), buf.offsetOf(textPos{line: 3, col: 3}))
}

func TestCursorMovementWraps(t *testing.T) {
	buf := newTextBufferFromString("ab\ncd")
	buf.moveCursorTo(0, 2)
	buf.moveCursorRight()
	assert.Equal(t, textPos{line: 1, col: 0}, buf.cursor)
	buf.moveCursorLeft()
	assert.Equal(t, textPos{line: 0, col: 2}, buf.cursor)

	buf.moveCursorDown()
	buf.moveCursorDown()
	assert.Equal(t, textPos{line: 1, col: 2}, buf.cursor)
	buf.moveCursorUp()
	buf.moveCursorUp()
	assert.Equal(t, textPos{line: 0, col: 0}, buf.cursor)

	buf.moveCursorTo(10, 10)
	assert.Equal(t, textPos{line: 1, col: 2}, buf.cursor)
}

func TestSelectionText(t *testing.T) {
	buf := newTextBufferFromString("first\nsecond\nthird")
	buf.moveCursorTo(0, 2)
	buf.setAnchor()
	buf.moveCursorTo(2, 3)
	assert.Equal(t, "rst\nsecond\nthi", buf.selectedText())

	// обратное выделение даёт тот же текст
	buf.moveCursorTo(0, 2)
	buf.setAnchor()
	buf.moveCursorTo(0, 0)
	assert.Equal(t, "fi", buf.selectedText())

	buf.selectAll()
	assert.Equal(t, "first\nsecond\nthird", buf.selectedText())
}

func TestEditBuilders(t *testing.T) {
	text := "ab\ncd"
	buf := newTextBufferFromString(text)

	buf.moveCursorTo(1, 0)
	e, ok := buf.backspaceEdit()
	require.True(t, ok)
	assert.Equal(t, "abcd", applyEdit(text, e))

	buf.moveCursorTo(0, 2)
	e, ok = buf.deleteForwardEdit()
	require.True(t, ok)
	assert.Equal(t, "abcd", applyEdit(text, e))

	buf.moveCursorTo(0, 0)
	_, ok = buf.backspaceEdit()
	assert.False(t, ok)
	buf.moveCursorTo(1, 2)
	_, ok = buf.deleteForwardEdit()
	assert.False(t, ok)

	buf.moveCursorTo(0, 1)
	buf.setAnchor()
	buf.moveCursorTo(1, 1)
	e = buf.insertEdit("X")
	assert.Equal(t, "aXd", applyEdit(text, e))
	assert.Equal(t, "b\nc", e.Old)
}

func TestEditBuildersMultibyte(t *testing.T) {
	text := "ñé"
	buf := newTextBufferFromString(text)
	buf.moveCursorTo(0, 2)
	e, ok := buf.backspaceEdit()
	require.True(t, ok)
	assert.Equal(t, "ñ", applyEdit(text, e))

	buf.moveCursorTo(0, 1)
	e = buf.insertEdit("x")
	assert.Equal(t, "ñxé", applyEdit(text, e))
}

func TestCRLFStaysOutOfLines(t *testing.T) {
	text := "a\r\nbc\r\n\nd\r"
	buf := newTextBufferFromString(text)
	assert.Equal(t, text, buf.fullText())
	require.Equal(t, 4, buf.lineCount())
	assert.Equal(t, "a", string(buf.lines[0]))
	assert.Equal(t, "bc", string(buf.lines[1]))
	assert.Equal(t, "d\r", string(buf.lines[3]), "без \\n это не окончание строки")

	for line := 0; line < buf.lineCount(); line++ {
		for col := 0; col <= buf.lineLength(line); col++ {
			pos := textPos{line: line, col: col}
			assert.Equal(t, pos, buf.posAt(buf.offsetOf(pos)))
		}
	}
	assert.Equal(t, len("a\r\n"), buf.offsetOf(textPos{line: 1}))
	// смещение между '\r' и '\n' прижимается к концу строки
	assert.Equal(t, textPos{line: 0, col: 1}, buf.posAt(len("a\r")))
}

func TestCRLFEditBuilders(t *testing.T) {
	text := "ab\r\ncd\r\n"
	buf := newTextBufferFromString(text)
	assert.Equal(t, "\r\n", buf.newline())

	buf.moveCursorTo(1, 0)
	e, ok := buf.backspaceEdit()
	require.True(t, ok)
	assert.Equal(t, "abcd\r\n", applyEdit(text, e))

	buf.moveCursorTo(0, 2)
	e, ok = buf.deleteForwardEdit()
	require.True(t, ok)
	assert.Equal(t, "abcd\r\n", applyEdit(text, e))

	buf.moveCursorTo(0, 1)
	buf.setAnchor()
	buf.moveCursorTo(1, 1)
	assert.Equal(t, "b\r\nc", buf.selectedText())

	assert.Equal(t, "\n", newTextBufferFromString("ab\ncd").newline())
}
