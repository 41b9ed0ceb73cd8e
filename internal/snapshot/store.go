// Package snapshot keeps the most recent analysis per symbol for readers
// such as the HTTP API and the Telegram bot.
package snapshot

import (
	"sort"
	"sync"
	"time"

	"MarketPulse/internal/model"
)

// Entry is the latest analysis of a symbol together with the label it
// replaced.
type Entry struct {
	Analysis  *model.Analysis
	Previous  model.SignalLabel
	UpdatedAt time.Time
}

// Changed reports whether the headline label differs from the previous
// one. The first analysis of a symbol is not a change.
func (e Entry) Changed() bool {
	return e.Previous != "" && e.Previous != e.Analysis.Latest.Label
}

// Store is a concurrency-safe map from symbol to its latest Entry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry), now: time.Now}
}

// Put replaces the analysis for a.Symbol and returns the new entry.
// Stored analyses must not be mutated afterwards.
func (s *Store) Put(a *model.Analysis) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{Analysis: a, UpdatedAt: s.now()}
	if prev, ok := s.entries[a.Symbol]; ok {
		e.Previous = prev.Analysis.Latest.Label
	}
	s.entries[a.Symbol] = e
	return e
}

// Get returns the entry for symbol.
func (s *Store) Get(symbol string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[symbol]
	return e, ok
}

// Symbols returns the stored symbols in sorted order.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for sym := range s.entries {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
