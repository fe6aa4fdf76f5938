package models

import "gonum.org/v1/gonum/stat"

// AggregateStats is a pure projection of a trade list. It is recomputed on
// demand and never stored, so it cannot go stale.
type AggregateStats struct {
	TradeCount     int
	TotalAmountSum float64
	ProfitSum      float64
	AverageResult  float64
}

// ComputeStats derives aggregate statistics from the given trades.
func ComputeStats(trades []Trade) AggregateStats {
	s := AggregateStats{TradeCount: len(trades)}
	if len(trades) == 0 {
		return s
	}
	results := make([]float64, 0, len(trades))
	for _, t := range trades {
		s.TotalAmountSum += t.Total
		s.ProfitSum += t.Profit
		results = append(results, t.Result)
	}
	s.AverageResult = stat.Mean(results, nil)
	return s
}
