// Package view derives the displayed sequence of entries from the store.
package view

import (
	"sort"
	"strings"
	"sync"

	"tableflip.dev/streammap/pkg/entry"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// KeyCreated orders chronologically instead of by the dateTime string.
const KeyCreated = "created"

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// ParseDirection accepts "asc"/"desc" in any case; anything else is
// Descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Sort is the active sort column and direction.
type Sort struct {
	Key       string
	Direction Direction
}

// DefaultSort is newest first by dateTime.
func DefaultSort() Sort {
	return Sort{Key: entry.FieldDateTime, Direction: Descending}
}

// Toggle applies a click on column key: the same column flips direction, a
// new column starts descending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		return Sort{Key: key, Direction: s.Direction.Flip()}
	}
	return Sort{Key: key, Direction: Descending}
}

// ValidKey reports whether key can be sorted on.
func ValidKey(key string) bool {
	if key == KeyCreated {
		return true
	}
	for _, f := range entry.Fields {
		if f == key {
			return true
		}
	}
	return false
}

// Project filters entries by text and sorts the survivors. The input slice
// is not modified.
func Project(entries []entry.Entry, s Sort, filterText string) []entry.Entry {
	out := Filter(entries, filterText)
	SortEntries(out, s)
	return out
}

// Filter keeps entries whose joined field values contain text, ignoring
// case. Empty text keeps everything.
func Filter(entries []entry.Entry, text string) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	needle := strings.ToLower(text)
	for _, e := range entries {
		if needle == "" || Matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether the lowercased needle occurs in e's values.
func Matches(e entry.Entry, needle string) bool {
	haystack := strings.ToLower(strings.Join(e.Values(), " "))
	return strings.Contains(haystack, strings.ToLower(needle))
}

// SortEntries sorts in place. Ties keep their relative order.
func SortEntries(entries []entry.Entry, s Sort) {
	if s.Key == KeyCreated {
		sortChronological(entries, s.Direction)
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Field(s.Key), entries[j].Field(s.Key)
		if s.Direction == Ascending {
			return a < b
		}
		return a > b
	})
}

// sortChronological uses the canonical timestamp, falling back to the
// parsed display string. Entries with no usable time sort last.
func sortChronological(entries []entry.Entry, d Direction) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, oki := entries[i].When()
		tj, okj := entries[j].When()
		switch {
		case !oki && !okj:
			return false
		case !oki:
			return false
		case !okj:
			return true
		case d == Ascending:
			return ti.Before(tj)
		default:
			return ti.After(tj)
		}
	})
}

// Projector holds the interactive view state shared by both renderings.
type Projector struct {
	mu     sync.RWMutex
	sort   Sort
	filter string
}

// NewProjector starts at DefaultSort with no filter.
func NewProjector() *Projector {
	return &Projector{sort: DefaultSort()}
}

// Sort returns the active sort.
func (p *Projector) Sort() Sort {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sort
}

// SetSort replaces the active sort.
func (p *Projector) SetSort(s Sort) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort = s
}

// Toggle handles a click on a column header.
func (p *Projector) Toggle(key string) Sort {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort = p.sort.Toggle(key)
	return p.sort
}

// Filter returns the active search text.
func (p *Projector) Filter() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter
}

// SetFilter replaces the search text.
func (p *Projector) SetFilter(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = text
}

// Project applies the current state to entries.
func (p *Projector) Project(entries []entry.Entry) []entry.Entry {
	p.mu.RLock()
	s, f := p.sort, p.filter
	p.mu.RUnlock()
	return Project(entries, s, f)
}
