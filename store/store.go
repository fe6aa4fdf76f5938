// Package store holds the accepted trade list for a session and the
// edit/delete/add correction workflow.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"sellscan/logger"
	"sellscan/models"
)

var (
	// ErrNotFound marks an edit/delete against an unknown trade id.
	// A programming error in the caller, tolerated defensively here.
	ErrNotFound = errors.New("trade not found")
	// ErrDuplicateID rejects adding a trade whose id is already present.
	ErrDuplicateID = errors.New("duplicate trade id")
	// ErrEditInFlight rejects a second concurrent edit; the session model
	// is single-user with at most one edit at a time.
	ErrEditInFlight = errors.New("another edit is in flight")
	// ErrNoEdit means commit/cancel was called without a begun edit.
	ErrNoEdit = errors.New("no edit in flight")
)

// Store is the correction store. Mutation is single-writer by design; the
// mutex keeps snapshot and stats reads safe alongside it.
type Store struct {
	mu      sync.Mutex
	trades  []models.Trade
	editing string // id of the trade being edited, empty when none
}

func New() *Store {
	return &Store{}
}

// Add appends a trade. The id must be unique within the store.
func (s *Store) Add(t models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(t.ID) >= 0 {
		return fmt.Errorf("add %s: %w", t.ID, ErrDuplicateID)
	}
	s.trades = append(s.trades, t)
	return nil
}

// BeginEdit loads a mutable copy of the identified trade and marks it as
// being edited. At most one edit may be in flight.
func (s *Store) BeginEdit(id string) (models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != "" {
		return models.Trade{}, ErrEditInFlight
	}
	i := s.indexOf(id)
	if i < 0 {
		return models.Trade{}, fmt.Errorf("begin edit %s: %w", id, ErrNotFound)
	}
	s.editing = id
	return s.trades[i], nil
}

// EditForm carries the user's correction input. Numeric fields arrive as
// raw strings; invalid input coerces to zero rather than blocking the user.
type EditForm struct {
	Pair   string
	Total  string
	Result string
}

// CommitEdit applies the form to the trade under edit: numeric fields are
// coerced, profit is recomputed and the correction flag cleared.
func (s *Store) CommitEdit(form EditForm) (models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == "" {
		return models.Trade{}, ErrNoEdit
	}
	i := s.indexOf(s.editing)
	if i < 0 {
		// deleted out from under the edit; treat as not found
		s.editing = ""
		return models.Trade{}, ErrNotFound
	}
	t := s.trades[i]
	if p := strings.TrimSpace(form.Pair); p != "" {
		t.Pair = strings.ToUpper(p)
	}
	t.Total = coerceNumber(form.Total)
	t.Result = coerceNumber(form.Result)
	t.RecomputeProfit()
	t.NeedsCorrection = false
	s.trades[i] = t
	s.editing = ""
	logger.Debugf("store: committed edit %s total=%.4f result=%.2f", t.ID, t.Total, t.Result)
	return t, nil
}

// CancelEdit discards the in-flight copy without mutating the store.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	s.editing = ""
	s.mu.Unlock()
}

// Delete removes a trade. Stats are a pure projection, so no orphan state
// can remain.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if s.editing == id {
		s.editing = ""
	}
	s.trades = append(s.trades[:i], s.trades[i+1:]...)
	return nil
}

// ClearAll empties the store. Irreversible within the session.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.trades = nil
	s.editing = ""
	s.mu.Unlock()
}

// Trades returns a snapshot of the accepted trades in insertion order.
func (s *Store) Trades() []models.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// Stats derives the aggregate projection from the current trade list.
func (s *Store) Stats() models.AggregateStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ComputeStats(s.trades)
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// coerceNumber parses correction input leniently: percent signs, commas and
// surrounding noise are tolerated, anything unparseable becomes zero.
func coerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
