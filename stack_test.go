package persisted

import (
	"path/filepath"
	"testing"
)

func tempStackPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "stack.jsonl")
}

func TestStackAddAndAsSortedList(t *testing.T) {
	t.Parallel()

	path := tempStackPath(t)
	s, err := NewStack(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Add("https://a.example", "A", 100); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("https://b.example", "B", 300); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("https://c.example", "C", 200); err != nil {
		t.Fatal(err)
	}

	sorted := s.AsSortedList()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(sorted))
	}
	wantOrder := []string{"https://b.example", "https://c.example", "https://a.example"}
	for i, want := range wantOrder {
		if sorted[i][stackURLKey] != want {
			t.Errorf("position %d: expected %s, got %v", i, want, sorted[i][stackURLKey])
		}
	}
}

// TestStackDeleteIsIdempotent exercises spec.md §8 property 6: deleting an
// absent URL must be a no-op, never an error.
func TestStackDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	path := tempStackPath(t)
	s, err := NewStack(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("https://never-added.example"); err != nil {
		t.Fatalf("expected deleting an absent URL to be a no-op, got %v", err)
	}

	if err := s.Add("https://a.example", "A", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("https://a.example"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("https://a.example"); err != nil {
		t.Fatalf("second delete of the same URL must also be a no-op, got %v", err)
	}
}

func TestStackEqual(t *testing.T) {
	t.Parallel()

	pathA := tempStackPath(t)
	pathB := filepath.Join(filepath.Dir(pathA), "stack-b.jsonl")

	a, err := NewStack(pathA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewStack(pathB)
	if err != nil {
		t.Fatal(err)
	}

	if !a.Equal(b) {
		t.Error("two empty stacks should be equal")
	}

	if err := a.Add("https://a.example", "A", 1); err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Error("stacks with different contents should not be equal")
	}

	if err := b.Add("https://a.example", "A", 1); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("stacks with identical contents should be equal")
	}

	if a.Equal(nil) {
		t.Error("a stack must not equal nil")
	}
}
