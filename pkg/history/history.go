// Package history keeps a small, bounded list of recent queries so the
// presentation layer can offer quick recall.
package history

import (
	"strings"
	"sync"
	"time"

	"ecos/pkg/utils"
)

// DefaultLimit is how many entries the store retains.
const DefaultLimit = 12

// Entry is one remembered query and the scenario it produced.
type Entry struct {
	Location   string    `json:"location"`
	Date       string    `json:"date,omitempty"`
	ScenarioID string    `json:"scenarioId,omitempty"`
	SearchedAt time.Time `json:"searchedAt"`
}

// Key identifies an entry for deduplication.
func (e Entry) Key() string {
	return strings.ToLower(strings.TrimSpace(e.Location)) + "|" + strings.ToLower(strings.TrimSpace(e.Date))
}

// Store is a most-recent-first, deduplicated-by-key list persisted as JSON.
type Store struct {
	mu      sync.Mutex
	path    string
	limit   int
	entries []Entry
}

// NewStore loads the store from path, starting empty if the file is absent
// or unreadable.
func NewStore(path string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s := &Store{path: path, limit: limit}
	if entries, err := utils.Load[[]Entry](path); err == nil {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		s.entries = entries
	}
	return s
}

// Add inserts or refreshes an entry at the front, evicting the oldest past
// the limit.
func (s *Store) Add(e Entry) {
	if strings.TrimSpace(e.Location) == "" {
		return
	}
	if e.SearchedAt.IsZero() {
		e.SearchedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := e.Key()
	kept := make([]Entry, 0, len(s.entries)+1)
	kept = append(kept, e)
	for _, old := range s.entries {
		if old.Key() == key {
			continue
		}
		kept = append(kept, old)
	}
	if len(kept) > s.limit {
		kept = kept[:s.limit]
	}
	s.entries = kept
}

// Entries returns a copy, most recent first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Save persists the current list.
func (s *Store) Save() error {
	s.mu.Lock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()
	return utils.Save(s.path, entries)
}
