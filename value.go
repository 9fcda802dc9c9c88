package persisted

import (
	"encoding/json"
	"fmt"
)

// checkEncodable returns ErrEncodingFailure if v cannot be marshalled as
// JSON. It is called before any in-memory mutation, so a rejected value
// never leaves the container or its log inconsistent.
func checkEncodable(v any) error {
	if _, err := json.Marshal(v); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return nil
}

// jsonEqual compares two values by their JSON encoding rather than by Go
// type, so that e.g. an int stored before a reload compares equal to the
// float64 it decodes as afterward.
func jsonEqual(a, b any) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(ab) == string(bb)
}

// canonicalKey returns the JSON encoding of a map key, used as its stable
// lookup identity regardless of which Go type carried it in (int vs.
// float64, for instance, since both round-trip through JSON the same way).
//
// Keys are restricted to JSON scalars (null, bool, number, string);
// arrays and objects are JSON-encodable as values but are never valid
// keys, matching the unhashability of list/dict keys in the original.
func canonicalKey(key any) (string, error) {
	switch key.(type) {
	case []any, map[string]any:
		return "", fmt.Errorf("%w: key of type %T is not a scalar", ErrEncodingFailure, key)
	}
	b, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	if b[0] == '[' || b[0] == '{' {
		return "", fmt.Errorf("%w: key of type %T is not a scalar", ErrEncodingFailure, key)
	}
	return string(b), nil
}

// paramIndex converts a replayed parameter back into an int index. Decoded
// JSON numbers arrive as float64; values appended within the same process
// before any reload may still be plain int.
func paramIndex(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: expected a numeric index, got %T", ErrMalformedLog, v)
	}
}
