// Package history implements the bounded undo/redo stacks of the edit session.
//
// A Stack is a LIFO with a fixed capacity: pushing onto a full stack silently
// evicts the oldest element. History pairs two stacks and moves snapshots
// between them the way an editor's undo and redo commands do.
package history

// Stack is a bounded LIFO. The zero value has capacity 0 and drops every push;
// use NewStack.
type Stack[T any] struct {
	items    []T
	capacity int
}

// NewStack creates an empty stack holding at most capacity elements.
func NewStack[T any](capacity int) *Stack[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Stack[T]{items: make([]T, 0, capacity), capacity: capacity}
}

// Push adds v on top. If the stack is full the bottom element is evicted and
// returned with evicted set to true.
func (s *Stack[T]) Push(v T) (dropped T, evicted bool) {
	if s.capacity == 0 {
		return v, true
	}
	if len(s.items) == s.capacity {
		dropped, evicted = s.items[0], true
		copy(s.items, s.items[1:])
		s.items = s.items[:len(s.items)-1]
	}
	s.items = append(s.items, v)
	return dropped, evicted
}

// Pop removes and returns the top element. ok is false on an empty stack.
func (s *Stack[T]) Pop() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	last := len(s.items) - 1
	v = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return v, true
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return len(s.items) }

// Cap returns the capacity the stack was created with.
func (s *Stack[T]) Cap() int { return s.capacity }

// Clear removes every element.
func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// Items returns the elements from top to bottom.
func (s *Stack[T]) Items() []T {
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[len(s.items)-1-i] = v
	}
	return out
}
