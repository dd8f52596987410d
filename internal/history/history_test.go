package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textTarget is a minimal Target over a string.
type textTarget struct {
	text string
	fail bool
}

func (t *textTarget) Apply(e Edit) error {
	if t.fail {
		return errors.New("rejected")
	}
	end := e.Offset + len(e.Old)
	if end > len(t.text) || t.text[e.Offset:end] != e.Old {
		return errors.New("mismatch")
	}
	t.text = t.text[:e.Offset] + e.New + t.text[end:]
	return nil
}

func apply(t *testing.T, target *textTarget, h *History, e Edit) {
	t.Helper()
	require.NoError(t, target.Apply(e))
	h.Record(e)
}

func TestEditInverse(t *testing.T) {
	e := Edit{Offset: 3, Old: "abc", New: "xy"}
	inv := e.Inverse()
	assert.Equal(t, Edit{Offset: 3, Old: "xy", New: "abc"}, inv)
	assert.Equal(t, e, inv.Inverse())
	assert.True(t, Edit{Offset: 1, Old: "a", New: "a"}.IsNoop())
	assert.False(t, e.IsNoop())
}

func TestUndoRedoRestoresText(t *testing.T) {
	target := &textTarget{text: "print()"}
	h := New(0)

	edits := []Edit{
		{Offset: 6, Old: "", New: "'hi'"},
		{Offset: 0, Old: "", New: "# greet\n"},
		{Offset: 0, Old: "# greet\n", New: ""},
		{Offset: 7, Old: "hi", New: "hello"},
	}
	for _, e := range edits {
		apply(t, target, h, e)
	}
	final := target.text
	assert.Equal(t, "print('hello')", final)

	for range edits {
		require.True(t, h.Undo(target))
	}
	assert.Equal(t, "print()", target.text)
	assert.False(t, h.Undo(target))
	assert.False(t, h.CanUndo())

	for range edits {
		require.True(t, h.Redo(target))
	}
	assert.Equal(t, final, target.text)
	assert.False(t, h.Redo(target))
}

func TestRecordClearsRedo(t *testing.T) {
	target := &textTarget{}
	h := New(0)
	apply(t, target, h, Edit{Offset: 0, New: "a"})
	apply(t, target, h, Edit{Offset: 1, New: "b"})

	require.True(t, h.Undo(target))
	assert.True(t, h.CanRedo())

	apply(t, target, h, Edit{Offset: 1, New: "c"})
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo(target))
	assert.Equal(t, "ac", target.text)
}

func TestRecordSkipsNoop(t *testing.T) {
	h := New(0)
	h.Record(Edit{Offset: 0, Old: "x", New: "x"})
	undo, redo := h.Len()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
}

func TestLimitDropsOldest(t *testing.T) {
	target := &textTarget{}
	h := New(2)
	for i, s := range []string{"a", "b", "c"} {
		apply(t, target, h, Edit{Offset: i, New: s})
	}
	undo, _ := h.Len()
	assert.Equal(t, 2, undo)

	require.True(t, h.Undo(target))
	require.True(t, h.Undo(target))
	assert.False(t, h.Undo(target))
	assert.Equal(t, "a", target.text)
}

func TestUndoKeepsStacksWhenTargetFails(t *testing.T) {
	target := &textTarget{}
	h := New(0)
	apply(t, target, h, Edit{Offset: 0, New: "a"})

	target.fail = true
	assert.False(t, h.Undo(target))
	undo, redo := h.Len()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)
}

func TestPeekAndClear(t *testing.T) {
	target := &textTarget{}
	h := New(0)
	_, ok := h.Peek()
	assert.False(t, ok)

	apply(t, target, h, Edit{Offset: 0, New: "x"})
	top, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, "x", top.New)

	require.True(t, h.Undo(target))
	redoTop, ok := h.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, "x", redoTop.New)

	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
