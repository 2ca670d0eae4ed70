package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// DefaultDepth is the capacity of each of the undo and redo stacks.
const DefaultDepth = 10

// ErrEmptyHistory is returned by Undo or Redo when there is nothing to move.
var ErrEmptyHistory = errors.New("history is empty")

// Entry is one snapshot on a stack.
//
// Label names the operation that separates the snapshot from the state next to
// it: on the undo stack it is the operation that was applied after the
// snapshot was taken, on the redo stack the operation that re-applying the
// snapshot restores. An entry keeps its ID and Label as it moves between the
// two stacks.
type Entry struct {
	ID      uuid.UUID     `json:"id"`
	Label   string        `json:"label"`
	Image   *raster.Image `json:"-"`
	Created time.Time     `json:"created"`
}

// History holds the undo and redo stacks of one session.
//
// History is not safe for concurrent use.
type History struct {
	undo *Stack[Entry]
	redo *Stack[Entry]
}

// New creates a History whose stacks each hold at most depth entries. A depth
// below 1 uses DefaultDepth.
func New(depth int) *History {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &History{undo: NewStack[Entry](depth), redo: NewStack[Entry](depth)}
}

// Record pushes a deep copy of img onto the undo stack and clears the redo
// stack. When the undo stack is full its oldest entry is discarded.
func (h *History) Record(img *raster.Image, label string) Entry {
	e := Entry{ID: uuid.New(), Label: label, Image: img.Clone(), Created: time.Now()}
	h.undo.Push(e)
	h.redo.Clear()
	return e
}

// Undo pops the newest undo snapshot and returns it as the new current image.
// current is pushed onto the redo stack under the popped entry's label.
func (h *History) Undo(current *raster.Image) (*raster.Image, Entry, error) {
	e, ok := h.undo.Pop()
	if !ok {
		return nil, Entry{}, ErrEmptyHistory
	}
	h.redo.Push(Entry{ID: e.ID, Label: e.Label, Image: current.Clone(), Created: time.Now()})
	return e.Image, e, nil
}

// Redo pops the newest redo snapshot and returns it as the new current image.
// current goes back onto the undo stack; unlike Record this leaves the rest of
// the redo stack in place.
func (h *History) Redo(current *raster.Image) (*raster.Image, Entry, error) {
	e, ok := h.redo.Pop()
	if !ok {
		return nil, Entry{}, ErrEmptyHistory
	}
	h.undo.Push(Entry{ID: e.ID, Label: e.Label, Image: current.Clone(), Created: time.Now()})
	return e.Image, e, nil
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo.Clear()
	h.redo.Clear()
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.undo.Len() > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.redo.Len() > 0 }

// UndoDepth returns the number of undo entries.
func (h *History) UndoDepth() int { return h.undo.Len() }

// RedoDepth returns the number of redo entries.
func (h *History) RedoDepth() int { return h.redo.Len() }

// Capacity returns the per-stack limit.
func (h *History) Capacity() int { return h.undo.Cap() }

// UndoEntries lists the undo stack, newest first.
func (h *History) UndoEntries() []Entry { return h.undo.Items() }

// RedoEntries lists the redo stack, newest first.
func (h *History) RedoEntries() []Entry { return h.redo.Items() }
