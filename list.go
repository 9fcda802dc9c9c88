package persisted

import "fmt"

const (
	opAppend = "append"
	opSet    = "set"
	opDelete = "delete"
	opRemove = "remove"
	opPush   = "push"
	opPop    = "pop"
)

// List is an ordered sequence of JSON-encodable values, persistently
// backed by a Log. Positions are zero-based; valid indices are exactly
// [0, Len()).
type List struct {
	log      *Log
	elements []any
}

// NewList constructs a List anchored to the file at path. If the file
// already holds a log, the list's state is rebuilt by replaying it before
// NewList returns; otherwise the list starts empty.
func NewList(path string) (*List, error) {
	l := &List{}
	var err error
	l.log, err = NewLog(path, l.snapshot)
	if err != nil {
		return nil, err
	}
	if err := l.log.Replay(l.replayHandlers()); err != nil {
		return nil, err
	}
	if err := l.log.Compact(); err != nil {
		return nil, err
	}
	return l, nil
}

// Len returns the number of elements currently in the list.
func (l *List) Len() int { return len(l.elements) }

// SetThreshold overrides the byte size at which the backing log compacts
// itself. See Log.SetThreshold.
func (l *List) SetThreshold(bytes int64) { l.log.SetThreshold(bytes) }

// Get returns the element at i.
func (l *List) Get(i int) (any, error) {
	if i < 0 || i >= len(l.elements) {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrOutOfBounds, i, len(l.elements))
	}
	return l.elements[i], nil
}

// Append adds v at the end of the list.
func (l *List) Append(v any) error {
	if err := checkEncodable(v); err != nil {
		return err
	}
	l.applyAppend(v)
	return l.log.Append(opAppend, v)
}

// Set replaces the element at i with v.
func (l *List) Set(i int, v any) error {
	if i < 0 || i >= len(l.elements) {
		return fmt.Errorf("%w: index %d, length %d", ErrOutOfBounds, i, len(l.elements))
	}
	if err := checkEncodable(v); err != nil {
		return err
	}
	l.applySet(i, v)
	return l.log.Append(opSet, i, v)
}

// DeleteAt removes the element at i.
func (l *List) DeleteAt(i int) error {
	if i < 0 || i >= len(l.elements) {
		return fmt.Errorf("%w: index %d, length %d", ErrOutOfBounds, i, len(l.elements))
	}
	l.applyDeleteAt(i)
	return l.log.Append(opDelete, i)
}

// Remove removes the first element equal to v. The log record is only
// emitted on success.
func (l *List) Remove(v any) error {
	idx := l.indexOf(v)
	if idx < 0 {
		return fmt.Errorf("%w: value %v", ErrNotFound, v)
	}
	l.applyDeleteAt(idx)
	return l.log.Append(opRemove, v)
}

// PushFront inserts v at position 0.
func (l *List) PushFront(v any) error {
	if err := checkEncodable(v); err != nil {
		return err
	}
	l.applyPushFront(v)
	return l.log.Append(opPush, v)
}

// PopBack removes and returns the last element.
func (l *List) PopBack() (any, error) {
	if len(l.elements) == 0 {
		return nil, fmt.Errorf("%w", ErrEmpty)
	}
	v := l.applyPopBack()
	return v, l.log.Append(opPop)
}

// IndexOf returns the position of the first element equal to v.
func (l *List) IndexOf(v any) (int, error) {
	idx := l.indexOf(v)
	if idx < 0 {
		return 0, fmt.Errorf("%w: value %v", ErrNotFound, v)
	}
	return idx, nil
}

// Contains reports whether v is present in the list.
func (l *List) Contains(v any) bool { return l.indexOf(v) >= 0 }

// Iterate returns a function that yields successive elements in order. The
// returned function's second result is false once the list is exhausted.
// Behavior is undefined if the list is mutated between calls.
func (l *List) Iterate() func() (any, bool) {
	i := 0
	return func() (any, bool) {
		if i >= len(l.elements) {
			return nil, false
		}
		v := l.elements[i]
		i++
		return v, true
	}
}

// ReverseIterate is Iterate in reverse order.
func (l *List) ReverseIterate() func() (any, bool) {
	i := len(l.elements) - 1
	return func() (any, bool) {
		if i < 0 {
			return nil, false
		}
		v := l.elements[i]
		i--
		return v, true
	}
}

func (l *List) indexOf(v any) int {
	for i, e := range l.elements {
		if jsonEqual(e, v) {
			return i
		}
	}
	return -1
}

// -- raw mutators (apply_from_log): change in-memory state only. --

func (l *List) applyAppend(v any) { l.elements = append(l.elements, v) }

func (l *List) applySet(i int, v any) { l.elements[i] = v }

func (l *List) applyDeleteAt(i int) {
	l.elements = append(l.elements[:i], l.elements[i+1:]...)
}

func (l *List) applyPushFront(v any) {
	grown := make([]any, len(l.elements)+1)
	grown[0] = v
	copy(grown[1:], l.elements)
	l.elements = grown
}

func (l *List) applyPopBack() any {
	v := l.elements[len(l.elements)-1]
	l.elements = l.elements[:len(l.elements)-1]
	return v
}

// snapshot is the compaction callback: one append per current element, in
// order.
func (l *List) snapshot() []Operation {
	ops := make([]Operation, len(l.elements))
	for i, v := range l.elements {
		ops[i] = Operation{Key: opAppend, Parameters: []any{v}}
	}
	return ops
}

// replayHandlers are the apply_from_log counterparts to the public
// mutators above: they touch only in-memory state, never the log.
func (l *List) replayHandlers() map[string]OpHandler {
	return map[string]OpHandler{
		opAppend: func(params []any) error {
			if len(params) != 1 {
				return fmt.Errorf("append expects 1 parameter, got %d", len(params))
			}
			l.applyAppend(params[0])
			return nil
		},
		opSet: func(params []any) error {
			if len(params) != 2 {
				return fmt.Errorf("set expects 2 parameters, got %d", len(params))
			}
			idx, err := paramIndex(params[0])
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(l.elements) {
				return fmt.Errorf("set index %d out of range for length %d", idx, len(l.elements))
			}
			l.applySet(idx, params[1])
			return nil
		},
		opDelete: func(params []any) error {
			if len(params) != 1 {
				return fmt.Errorf("delete expects 1 parameter, got %d", len(params))
			}
			idx, err := paramIndex(params[0])
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(l.elements) {
				return fmt.Errorf("delete index %d out of range for length %d", idx, len(l.elements))
			}
			l.applyDeleteAt(idx)
			return nil
		},
		opRemove: func(params []any) error {
			if len(params) != 1 {
				return fmt.Errorf("remove expects 1 parameter, got %d", len(params))
			}
			idx := l.indexOf(params[0])
			if idx < 0 {
				return fmt.Errorf("remove value %v not present", params[0])
			}
			l.applyDeleteAt(idx)
			return nil
		},
		opPush: func(params []any) error {
			if len(params) != 1 {
				return fmt.Errorf("push expects 1 parameter, got %d", len(params))
			}
			l.applyPushFront(params[0])
			return nil
		},
		opPop: func(params []any) error {
			if len(l.elements) == 0 {
				return fmt.Errorf("pop on an empty list")
			}
			l.applyPopBack()
			return nil
		},
	}
}
