package extract

import (
	"math"

	"sellscan/models"
)

// Two trades closer than this in both total and result are the same
// transaction seen twice.
const dupEpsilon = 0.01

// IsDuplicate reports whether t repeats one of the accepted trades.
func IsDuplicate(t models.Trade, accepted []models.Trade) bool {
	for _, a := range accepted {
		if math.Abs(t.Total-a.Total) < dupEpsilon && math.Abs(t.Result-a.Result) < dupEpsilon {
			return true
		}
	}
	return false
}

// Deduplicate collapses near-identical trades, keeping the first occurrence.
// Running it twice yields the same result as once.
func Deduplicate(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if IsDuplicate(t, out) {
			continue
		}
		out = append(out, t)
	}
	return out
}
