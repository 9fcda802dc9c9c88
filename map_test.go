package persisted

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempMapPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "map.jsonl")
}

// TestMapRoundTrip exercises the literal scenario from spec.md §8.
func TestMapRoundTrip(t *testing.T) {
	t.Parallel()

	path := tempMapPath(t)
	m, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}

	mustSet := func(k, v any) {
		t.Helper()
		if err := m.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	mustSet(1, 1)
	mustSet(2, "two")
	mustSet("three", 3)
	mustSet("list", []any{1, 2, 3})
	mustSet("to be deleted", 5)
	if _, err := m.Delete("to be deleted"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 4 {
		t.Fatalf("expected length 4, got %d", reloaded.Len())
	}
	check := func(k, want any) {
		t.Helper()
		got, err := reloaded.Get(k)
		if err != nil {
			t.Fatal(err)
		}
		if !jsonEqual(got, want) {
			t.Errorf("key %v: expected %v, got %v", k, want, got)
		}
	}
	check(1, 1)
	check(2, "two")
	check("three", 3)
	check("list", []any{1, 2, 3})
	if reloaded.Contains("to be deleted") {
		t.Error("expected 'to be deleted' to be absent")
	}
}

func TestMapGetAndDeleteMissingKey(t *testing.T) {
	t.Parallel()

	path := tempMapPath(t)
	m, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := m.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapIterationIsStable(t *testing.T) {
	t.Parallel()

	path := tempMapPath(t)
	m, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{"a", "b", "c", "d"}
	for _, k := range keys {
		if err := m.Set(k, k); err != nil {
			t.Fatal(err)
		}
	}

	var first []any
	iter := m.IterateKeys()
	for k, ok := iter(); ok; k, ok = iter() {
		first = append(first, k)
	}

	var second []any
	iter = m.IterateKeys()
	for k, ok := iter(); ok; k, ok = iter() {
		second = append(second, k)
	}

	if len(first) != len(second) {
		t.Fatalf("iteration length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !jsonEqual(first[i], second[i]) {
			t.Errorf("iteration order changed at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestMapIntegerKeyRoundTripsAsNumber(t *testing.T) {
	t.Parallel()

	path := tempMapPath(t)
	m, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Set(1, "one"); err != nil {
		t.Fatal(err)
	}
	reloaded, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}
	v, err := reloaded.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if v != "one" {
		t.Errorf("expected \"one\", got %v", v)
	}
	if reloaded.Contains("1") {
		t.Error("integer key 1 must not collide with the string key \"1\"")
	}
}

func TestMapEncodingFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	path := tempMapPath(t)
	m, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Set("a", 1); err != nil {
		t.Fatal(err)
	}
	lenBefore := m.Len()
	contentsBefore, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	err = m.Set("b", make(chan int))
	if !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("expected ErrEncodingFailure, got %v", err)
	}
	if m.Len() != lenBefore {
		t.Error("a rejected set must not change in-memory length")
	}
	contentsAfter, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(contentsBefore) != string(contentsAfter) {
		t.Error("a rejected set must not change the backing file")
	}
}

// TestMapRejectsNonScalarKeys exercises the data model restriction that map
// keys are JSON scalars; arrays and objects are valid values but never valid
// keys, mirroring the unhashable-key TypeError the original raises for
// list/dict keys.
func TestMapRejectsNonScalarKeys(t *testing.T) {
	t.Parallel()

	path := tempMapPath(t)
	m, err := NewMap(path)
	if err != nil {
		t.Fatal(err)
	}

	arrayKey := []any{1, 2}
	objectKey := map[string]any{"x": 1}

	if err := m.Set(arrayKey, "value"); !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("expected ErrEncodingFailure for array key, got %v", err)
	}
	if err := m.Set(objectKey, "value"); !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("expected ErrEncodingFailure for object key, got %v", err)
	}
	if m.Len() != 0 {
		t.Error("a rejected key must not be stored")
	}
	if _, err := m.Get(arrayKey); !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("expected ErrEncodingFailure from Get with array key, got %v", err)
	}
	if _, err := m.Delete(objectKey); !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("expected ErrEncodingFailure from Delete with object key, got %v", err)
	}
}
