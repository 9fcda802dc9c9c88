package persisted

import (
	"errors"
	"sort"
)

const (
	stackTitleKey     = "title"
	stackTimestampKey = "timestamp"
	stackURLKey       = "url"
)

// Stack is a stack of pages a user has saved for later viewing, keyed by
// URL and backed by a Map. It is an illustrative consumer of Map: nothing
// here changes Map's on-disk contract, it only fixes a convention for what
// gets stored at each key.
type Stack struct {
	pages *Map
}

// NewStack constructs a Stack anchored to the file at path.
func NewStack(path string) (*Stack, error) {
	pages, err := NewMap(path)
	if err != nil {
		return nil, err
	}
	return &Stack{pages: pages}, nil
}

// Add saves a page under url. The URL is duplicated inside the stored
// value so AsSortedList doesn't need an external join back to the key.
func (s *Stack) Add(url, title string, timestamp float64) error {
	page := map[string]any{
		stackTitleKey:     title,
		stackTimestampKey: timestamp,
		stackURLKey:       url,
	}
	return s.pages.Set(url, page)
}

// Delete removes the page saved under url. Deleting an absent URL is a
// silent no-op.
func (s *Stack) Delete(url string) error {
	_, err := s.pages.Delete(url)
	if err != nil && errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// AsSortedList returns every saved page, most recently timestamped first.
// Ties are broken stably.
func (s *Stack) AsSortedList() []map[string]any {
	pages := make([]map[string]any, 0, s.pages.Len())
	iter := s.pages.IterateValues()
	for v, ok := iter(); ok; v, ok = iter() {
		if page, ok := v.(map[string]any); ok {
			pages = append(pages, page)
		}
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return timestampOf(pages[i]) > timestampOf(pages[j])
	})
	return pages
}

func timestampOf(page map[string]any) float64 {
	switch ts := page[stackTimestampKey].(type) {
	case float64:
		return ts
	case int:
		return float64(ts)
	default:
		return 0
	}
}

// Equal reports whether other holds exactly the same URL -> page mapping
// as s. Equality is defined only between two Stacks; there is no Go
// subtype to dispatch a broader comparison through.
func (s *Stack) Equal(other *Stack) bool {
	if other == nil {
		return false
	}
	if s.pages.Len() != other.pages.Len() {
		return false
	}
	iter := s.pages.IterateItems()
	for k, v, ok := iter(); ok; k, v, ok = iter() {
		ov, err := other.pages.Get(k)
		if err != nil || !jsonEqual(v, ov) {
			return false
		}
	}
	return true
}
