// Package boxoffice loads the daily box-office snapshot: the list of titles
// currently showing in theatres.
package boxoffice

import (
	"strings"
	"time"
)

// Snapshot is an immutable list of currently showing titles.
type Snapshot struct {
	titles   []string
	index    map[string]struct{}
	source   string
	loadedAt time.Time
}

// NewSnapshot builds a snapshot, trimming titles and dropping blanks.
// Order is kept and duplicates are removed.
func NewSnapshot(titles []string, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		titles:   make([]string, 0, len(titles)),
		index:    make(map[string]struct{}, len(titles)),
		source:   source,
		loadedAt: loadedAt,
	}
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := s.index[t]; dup {
			continue
		}
		s.index[t] = struct{}{}
		s.titles = append(s.titles, t)
	}
	return s
}

// Empty returns a snapshot with no titles.
func Empty() *Snapshot {
	return NewSnapshot(nil, "", time.Time{})
}

// Titles returns a copy of the titles in file order.
func (s *Snapshot) Titles() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out
}

// Contains reports whether title, trimmed, is in the snapshot.
func (s *Snapshot) Contains(title string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[strings.TrimSpace(title)]
	return ok
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.titles)
}

func (s *Snapshot) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}
