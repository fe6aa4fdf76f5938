package extract

import (
	"regexp"
	"strings"

	"sellscan/models"
)

// AnchorStrategy names one of the interchangeable anchor detectors.
// A deployment picks exactly one; they are never chained.
type AnchorStrategy string

const (
	// AnchorKeyword seeds candidates from transaction keywords.
	AnchorKeyword AnchorStrategy = "anchor_keyword"
	// AnchorPercent seeds candidates from plausible percentage tokens.
	// Percentages are the most reliably segmented tokens in trading
	// screenshots (isolated symbol, fixed short format), so this variant
	// trades false positives for fewer false negatives.
	AnchorPercent AnchorStrategy = "anchor_percent"
)

var sellKeywords = []string{"sell", "prodej", "prodat", "sold", "sale"}

var percentAnchorRE = regexp.MustCompile(`^[+-]?\d{1,2}(?:[.,]\d{1,4})?%?$`)

// DetectAnchors scans tokens for transaction markers under the given
// strategy. The caller pre-filters tokens to anchor-eligible confidence.
// Anchors are independent; overlapping candidates are left to dedup.
func DetectAnchors(tokens []models.OcrToken, strategy AnchorStrategy) []models.OcrToken {
	var out []models.OcrToken
	for _, t := range tokens {
		if isAnchor(t, strategy) {
			out = append(out, t)
		}
	}
	return out
}

func isAnchor(t models.OcrToken, strategy AnchorStrategy) bool {
	switch strategy {
	case AnchorPercent:
		s := strings.TrimSpace(t.Text)
		if !percentAnchorRE.MatchString(s) {
			return false
		}
		v, err := parseNumber(strings.TrimSuffix(s, "%"))
		if err != nil {
			return false
		}
		return plausibleResult(v)
	default:
		low := strings.ToLower(t.Text)
		for _, kw := range sellKeywords {
			if strings.Contains(low, kw) {
				return true
			}
		}
		return false
	}
}
