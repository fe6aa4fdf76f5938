package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellscan/models"
)

func newTrade(pair string, total, result float64, needsCorrection bool) models.Trade {
	t := models.Trade{
		ID:              models.NewTradeID(),
		Pair:            pair,
		Total:           total,
		Result:          result,
		NeedsCorrection: needsCorrection,
	}
	t.RecomputeProfit()
	return t
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s := New()
	tr := newTrade("SQR/USDT", 274.12, 6.26, false)
	require.NoError(t, s.Add(tr))
	err := s.Add(tr)
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, s.Trades(), 1)
}

func TestBeginEditNotFound(t *testing.T) {
	s := New()
	_, err := s.BeginEdit("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSingleEditInFlight(t *testing.T) {
	s := New()
	a := newTrade("SQR/USDT", 100, 5, false)
	b := newTrade("ALGO/USDT", 200, -2, false)
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))

	_, err := s.BeginEdit(a.ID)
	require.NoError(t, err)
	_, err = s.BeginEdit(b.ID)
	require.ErrorIs(t, err, ErrEditInFlight)

	s.CancelEdit()
	_, err = s.BeginEdit(b.ID)
	require.NoError(t, err)
}

func TestCommitEditRecomputesProfitAndClearsFlag(t *testing.T) {
	s := New()
	tr := newTrade("SQR/USDT", 0, 6.26, true) // total missing at extraction
	require.NoError(t, s.Add(tr))

	_, err := s.BeginEdit(tr.ID)
	require.NoError(t, err)
	updated, err := s.CommitEdit(EditForm{Pair: tr.Pair, Total: "274.12", Result: "6.26"})
	require.NoError(t, err)

	assert.False(t, updated.NeedsCorrection)
	assert.Equal(t, 274.12, updated.Total)
	assert.InDelta(t, 17.159912, updated.Profit, 1e-9)
	assert.True(t, updated.ProfitConsistent(1e-9))

	stored := s.Trades()
	require.Len(t, stored, 1)
	assert.Equal(t, updated, stored[0])
}

func TestCommitEditCoercesInvalidInput(t *testing.T) {
	s := New()
	tr := newTrade("SQR/USDT", 274.12, 6.26, false)
	require.NoError(t, s.Add(tr))

	_, err := s.BeginEdit(tr.ID)
	require.NoError(t, err)
	updated, err := s.CommitEdit(EditForm{Pair: tr.Pair, Total: "not a number", Result: "+6,26%"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, updated.Total)
	assert.Equal(t, 6.26, updated.Result)
	assert.Equal(t, 0.0, updated.Profit)
	assert.False(t, updated.NeedsCorrection)
}

func TestCommitWithoutBegin(t *testing.T) {
	s := New()
	_, err := s.CommitEdit(EditForm{Total: "1", Result: "2"})
	require.ErrorIs(t, err, ErrNoEdit)
}

func TestCancelEditLeavesTradeUntouched(t *testing.T) {
	s := New()
	tr := newTrade("SQR/USDT", 274.12, 6.26, false)
	require.NoError(t, s.Add(tr))
	_, err := s.BeginEdit(tr.ID)
	require.NoError(t, err)
	s.CancelEdit()
	assert.Equal(t, tr, s.Trades()[0])
}

func TestDeleteRemovesAndRecomputesStats(t *testing.T) {
	s := New()
	a := newTrade("SQR/USDT", 100, 5, false)
	b := newTrade("ALGO/USDT", 200, -2, false)
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))

	require.NoError(t, s.Delete(a.ID))
	require.ErrorIs(t, s.Delete(a.ID), ErrNotFound)

	stats := s.Stats()
	assert.Equal(t, 1, stats.TradeCount)
	assert.Equal(t, 200.0, stats.TotalAmountSum)
	assert.InDelta(t, -4.0, stats.ProfitSum, 1e-9)
	assert.InDelta(t, -2.0, stats.AverageResult, 1e-9)
}

func TestClearAll(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newTrade("SQR/USDT", 100, 5, false)))
	s.ClearAll()
	assert.Empty(t, s.Trades())
	assert.Equal(t, models.AggregateStats{}, s.Stats())
}

func TestStatsAggregation(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newTrade("SQR/USDT", 274.12, 6.26, false)))
	require.NoError(t, s.Add(newTrade("ALGO/USDT", 150, -3.4, false)))

	stats := s.Stats()
	assert.Equal(t, 2, stats.TradeCount)
	assert.InDelta(t, 424.12, stats.TotalAmountSum, 1e-9)
	wantProfit := 274.12*6.26/100 + 150*-3.4/100
	assert.InDelta(t, wantProfit, stats.ProfitSum, 1e-9)
	assert.InDelta(t, (6.26-3.4)/2, stats.AverageResult, 1e-9)
}

func TestCoerceNumber(t *testing.T) {
	cases := map[string]float64{
		"274.12":  274.12,
		"+6.26%":  6.26,
		"6,26":    6.26,
		" -3.4 ":  -3.4,
		"garbage": 0,
		"":        0,
	}
	for in, want := range cases {
		got := coerceNumber(in)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("coerceNumber(%q) = %v, want %v", in, got, want)
		}
	}
}
