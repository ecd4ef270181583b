package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultColor is used whenever an activity references a category that is
// no longer present.
const DefaultColor = "#6C5CE7"

// Category is a single name-to-color entry.
type Category struct {
	Name  string
	Color string
}

// CategorySet is an ordered mapping of category name to hex color. Names are
// unique and non-empty, and the set refuses to shrink to zero entries via
// Remove. The zero value is not usable; construct with NewCategorySet.
type CategorySet struct {
	names  []string
	colors map[string]string
}

func NewCategorySet(entries ...Category) *CategorySet {
	s := &CategorySet{colors: make(map[string]string)}
	for _, e := range entries {
		_ = s.Add(e.Name, e.Color)
	}
	return s
}

// Add inserts a new category. Empty names and duplicates are rejected.
func (s *CategorySet) Add(name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name is empty", ErrInvalidInput)
	}
	if _, ok := s.colors[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}
	s.names = append(s.names, name)
	s.colors[name] = color
	return nil
}

// SetColor overwrites the color of an existing category. It reports whether
// anything changed so callers can skip the persistence round-trip on no-ops.
func (s *CategorySet) SetColor(name, color string) (bool, error) {
	cur, ok := s.colors[name]
	if !ok {
		return false, fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	if cur == color {
		return false, nil
	}
	s.colors[name] = color
	return true, nil
}

// Remove deletes a category. Removing the last remaining entry always fails
// so the set never becomes empty.
func (s *CategorySet) Remove(name string) error {
	if _, ok := s.colors[name]; !ok {
		return fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	if len(s.names) == 1 {
		return fmt.Errorf("%w: %q is the only category", ErrLastCategory, name)
	}
	delete(s.colors, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return nil
}

// Color resolves a category name to its color, falling back to DefaultColor
// for unknown names. It never fails.
func (s *CategorySet) Color(name string) string {
	if c, ok := s.colors[name]; ok {
		return c
	}
	return DefaultColor
}

// Has reports whether the name is present.
func (s *CategorySet) Has(name string) bool {
	_, ok := s.colors[name]
	return ok
}

func (s *CategorySet) Len() int {
	return len(s.names)
}

// Names returns the category names in insertion order.
func (s *CategorySet) Names() []string {
	return append([]string(nil), s.names...)
}

// Entries returns name/color pairs in insertion order.
func (s *CategorySet) Entries() []Category {
	out := make([]Category, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, Category{Name: n, Color: s.colors[n]})
	}
	return out
}

// Clone returns an independent copy.
func (s *CategorySet) Clone() *CategorySet {
	return NewCategorySet(s.Entries()...)
}

// MarshalJSON encodes the set as a flat name-to-color object, preserving
// insertion order.
func (s *CategorySet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.colors[n])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat name-to-color object, keeping the order in which
// keys appear. Any other top-level shape is a schema error.
func (s *CategorySet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: categories: %v", ErrSchema, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: categories must be a flat name to color object", ErrSchema)
	}
	s.names = nil
	s.colors = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: categories: %v", ErrSchema, err)
		}
		name, _ := keyTok.(string)
		var color string
		if err := dec.Decode(&color); err != nil {
			return fmt.Errorf("%w: category %q: color must be a string", ErrSchema, name)
		}
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := s.colors[name]; ok {
			continue
		}
		s.names = append(s.names, name)
		s.colors[name] = color
	}
	return nil
}
