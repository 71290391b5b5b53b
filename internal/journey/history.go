package journey

// history keeps undo and redo stacks of map snapshots for the current key.
type history struct {
	undoStack []*Map
	redoStack []*Map
	limit     int
}

func (h *history) record(before *Map) {
	h.undoStack = append(h.undoStack, before)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[len(h.undoStack)-h.limit:]
	}
	h.redoStack = h.redoStack[:0]
}

// undo pops the last snapshot and pushes current onto the redo stack.
func (h *history) undo(current *Map) (*Map, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	last := len(h.undoStack) - 1
	prev := h.undoStack[last]
	h.undoStack = h.undoStack[:last]
	h.redoStack = append(h.redoStack, current)
	return prev, true
}

func (h *history) redo(current *Map) (*Map, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	last := len(h.redoStack) - 1
	next := h.redoStack[last]
	h.redoStack = h.redoStack[:last]
	h.undoStack = append(h.undoStack, current)
	return next, true
}

func (h *history) reset() {
	h.undoStack = nil
	h.redoStack = nil
}
