package models

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Trade is a single extracted SELL transaction. Total is the traded amount in
// quote currency, Result the percentage outcome, Profit the derived gain.
// NeedsCorrection marks records whose Total or Result could not be extracted
// and were defaulted to zero pending human review.
type Trade struct {
	ID              string
	Pair            string
	Total           float64
	Result          float64
	Profit          float64
	SourceImage     string
	Confidence      int
	NeedsCorrection bool
	DebugContext    string
}

// NewTradeID returns a fresh unique trade id. Ids are never reused,
// including after deletion.
func NewTradeID() string {
	return uuid.NewString()
}

// RecomputeProfit re-derives Profit from Total and Result.
// Must be called after every creation or field edit.
func (t *Trade) RecomputeProfit() {
	t.Profit = t.Total * t.Result / 100
}

// ProfitConsistent reports whether the profit invariant holds within tol.
func (t Trade) ProfitConsistent(tol float64) bool {
	return math.Abs(t.Profit-t.Total*t.Result/100) <= tol
}

func (t Trade) String() string {
	id := t.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Trade{%s %s total=%.4f result=%.2f%% profit=%.4f conf=%d review=%v}",
		id, t.Pair, t.Total, t.Result, t.Profit, t.Confidence, t.NeedsCorrection)
}
