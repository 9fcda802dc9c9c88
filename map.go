package persisted

import (
	"fmt"

	omap "github.com/wk8/go-ordered-map/v2"
)

const (
	opMapSet    = "set"
	opMapDelete = "delete"
)

// mapEntry retains a key's original decoded form alongside its value; the
// ordered map itself is keyed by the key's canonical JSON string so that
// e.g. int(1) and the float64(1) a reload decodes it as collide.
type mapEntry struct {
	key   any
	value any
}

// Map is a keyed mapping from JSON-encodable keys to JSON-encodable
// values, persistently backed by a Log. Iteration order is insertion
// order, and is stable across mutations that don't touch the iterated
// keys.
type Map struct {
	log     *Log
	entries *omap.OrderedMap[string, mapEntry]
}

// NewMap constructs a Map anchored to the file at path, replaying any
// existing log before returning.
func NewMap(path string) (*Map, error) {
	m := &Map{entries: omap.New[string, mapEntry]()}
	var err error
	m.log, err = NewLog(path, m.snapshot)
	if err != nil {
		return nil, err
	}
	if err := m.log.Replay(m.replayHandlers()); err != nil {
		return nil, err
	}
	if err := m.log.Compact(); err != nil {
		return nil, err
	}
	return m, nil
}

// Len returns the number of keys in the map.
func (m *Map) Len() int { return m.entries.Len() }

// SetThreshold overrides the byte size at which the backing log compacts
// itself. See Log.SetThreshold.
func (m *Map) SetThreshold(bytes int64) { m.log.SetThreshold(bytes) }

// Get returns the value associated with key.
func (m *Map) Get(key any) (any, error) {
	ck, err := canonicalKey(key)
	if err != nil {
		return nil, err
	}
	entry, ok := m.entries.Get(ck)
	if !ok {
		return nil, fmt.Errorf("%w: key %v", ErrNotFound, key)
	}
	return entry.value, nil
}

// Set associates value with key, replacing any prior association.
func (m *Map) Set(key, value any) error {
	if err := checkEncodable(value); err != nil {
		return err
	}
	ck, err := canonicalKey(key)
	if err != nil {
		return err
	}
	m.applySet(ck, key, value)
	return m.log.Append(opMapSet, key, value)
}

// Delete removes key from the map and returns the value it was mapped to.
func (m *Map) Delete(key any) (any, error) {
	ck, err := canonicalKey(key)
	if err != nil {
		return nil, err
	}
	entry, ok := m.entries.Get(ck)
	if !ok {
		return nil, fmt.Errorf("%w: key %v", ErrNotFound, key)
	}
	m.applyDelete(ck)
	if err := m.log.Append(opMapDelete, key); err != nil {
		return nil, err
	}
	return entry.value, nil
}

// Contains reports whether key is present in the map.
func (m *Map) Contains(key any) bool {
	ck, err := canonicalKey(key)
	if err != nil {
		return false
	}
	_, ok := m.entries.Get(ck)
	return ok
}

// IterateKeys returns a function yielding successive keys in insertion
// order, then (nil, false) once exhausted.
func (m *Map) IterateKeys() func() (any, bool) {
	pair := m.entries.Oldest()
	return func() (any, bool) {
		if pair == nil {
			return nil, false
		}
		k := pair.Value.key
		pair = pair.Next()
		return k, true
	}
}

// IterateValues is IterateKeys over values instead of keys.
func (m *Map) IterateValues() func() (any, bool) {
	pair := m.entries.Oldest()
	return func() (any, bool) {
		if pair == nil {
			return nil, false
		}
		v := pair.Value.value
		pair = pair.Next()
		return v, true
	}
}

// IterateItems returns a function yielding successive (key, value) pairs
// in insertion order, then (nil, nil, false) once exhausted.
func (m *Map) IterateItems() func() (any, any, bool) {
	pair := m.entries.Oldest()
	return func() (any, any, bool) {
		if pair == nil {
			return nil, nil, false
		}
		k, v := pair.Value.key, pair.Value.value
		pair = pair.Next()
		return k, v, true
	}
}

// -- raw mutators (apply_from_log): change in-memory state only. --

func (m *Map) applySet(canonical string, key, value any) {
	m.entries.Set(canonical, mapEntry{key: key, value: value})
}

func (m *Map) applyDelete(canonical string) {
	m.entries.Delete(canonical)
}

// snapshot is the compaction callback: one set per live entry, in the
// map's current iteration order.
func (m *Map) snapshot() []Operation {
	ops := make([]Operation, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		ops = append(ops, Operation{Key: opMapSet, Parameters: []any{pair.Value.key, pair.Value.value}})
	}
	return ops
}

func (m *Map) replayHandlers() map[string]OpHandler {
	return map[string]OpHandler{
		opMapSet: func(params []any) error {
			if len(params) != 2 {
				return fmt.Errorf("set expects 2 parameters, got %d", len(params))
			}
			ck, err := canonicalKey(params[0])
			if err != nil {
				return err
			}
			m.applySet(ck, params[0], params[1])
			return nil
		},
		opMapDelete: func(params []any) error {
			if len(params) != 1 {
				return fmt.Errorf("delete expects 1 parameter, got %d", len(params))
			}
			ck, err := canonicalKey(params[0])
			if err != nil {
				return err
			}
			m.applyDelete(ck)
			return nil
		},
	}
}
