package history

// Edit одно изменение текста: байты [Offset, Offset+len(Old)) заменены на New.
// У вставки пустой Old, у удаления пустой New.
type Edit struct {
	Offset int
	Old    string
	New    string
}

// Inverse возвращает правку, отменяющую e.
func (e Edit) Inverse() Edit {
	return Edit{Offset: e.Offset, Old: e.New, New: e.Old}
}

// IsNoop сообщает, что e не меняет текст.
func (e Edit) IsNoop() bool {
	return e.Old == e.New
}

// Target то, к чему применяются правки.
type Target interface {
	Apply(Edit) error
}

// History линейный журнал undo/redo. Запись после отмены сбрасывает ветку redo.
type History struct {
	undoStack []Edit
	redoStack []Edit
	limit     int // 0 → без ограничения
}

// New создаёт историю. При limit <= 0 хранятся все правки.
func New(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Record кладёт правку в стек undo и очищает стек redo.
func (h *History) Record(e Edit) {
	if e.IsNoop() {
		return
	}
	h.undoStack = append(h.undoStack, e)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[len(h.undoStack)-h.limit:]
	}
	h.redoStack = nil
}

// Undo применяет к t обратную правку для последнего изменения. Возвращает
// false, если отменять нечего или t отверг правку.
func (h *History) Undo(t Target) bool {
	if len(h.undoStack) == 0 {
		return false
	}
	e := h.undoStack[len(h.undoStack)-1]
	if err := t.Apply(e.Inverse()); err != nil {
		return false
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return true
}

// Redo повторяет последнюю отменённую правку.
func (h *History) Redo(t Target) bool {
	if len(h.redoStack) == 0 {
		return false
	}
	e := h.redoStack[len(h.redoStack)-1]
	if err := t.Apply(e); err != nil {
		return false
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Peek возвращает правку, которую отменит следующий Undo.
func (h *History) Peek() (Edit, bool) {
	if len(h.undoStack) == 0 {
		return Edit{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo возвращает правку, которую повторит следующий Redo.
func (h *History) PeekRedo() (Edit, bool) {
	if len(h.redoStack) == 0 {
		return Edit{}, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// Len возвращает размеры стеков undo и redo.
func (h *History) Len() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}

// Clear очищает оба стека.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}
