package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Plausible trading-amount range in quote currency. Values below 50 are
// usually dates, counts or stray row numbers; above 100000 they are ids.
const (
	totalMin = 50
	totalMax = 100000
)

// Result percentages outside this band are OCR noise; the 0.1 floor
// excludes stray "0" glyphs.
const (
	resultMagnitudeMin = 0.1
	resultMagnitudeMax = 99
)

func plausibleTotal(v float64) bool {
	return v >= totalMin && v <= totalMax
}

func plausibleResult(v float64) bool {
	m := math.Abs(v)
	return m > resultMagnitudeMin && m <= resultMagnitudeMax
}

// parseNumber parses an OCR numeric token, tolerating a comma decimal
// separator and a leading plus sign.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(s, 64)
}
