package extract

import (
	"regexp"
	"strings"

	"sellscan/models"
)

// TotalSelection names the tie-break used when several plausible amounts
// share the anchor row. The source material is inconsistent about which is
// right, so both survive as configuration.
type TotalSelection string

const (
	// TotalNearest prefers the amount closest to the anchor horizontally.
	TotalNearest TotalSelection = "total_nearest"
	// TotalLargest prefers the biggest plausible amount.
	TotalLargest TotalSelection = "total_largest"
)

// Fields is the transient per-anchor extraction result. Nil Total/Result
// mean "not found"; the zero default is applied only at assembly so the
// review flag can tell "missing" from "legitimately zero".
type Fields struct {
	Pair   string
	Total  *float64
	Result *float64
	Tokens []models.OcrToken
}

var quoteCurrencies = map[string]bool{
	"USDT": true, "USDC": true, "USD": true, "BUSD": true,
}

// Symbols seen in the target trading interface; rescues pairs whose quote
// suffix was lost by OCR.
var knownSymbols = map[string]bool{
	"SQR": true, "ALGO": true, "BONK": true, "DOGE": true, "SHIB": true,
	"ETC": true, "OP": true, "BTC": true, "ETH": true, "SOL": true,
	"XRP": true, "ADA": true,
}

var (
	pairSlashRE = regexp.MustCompile(`(?i)([A-Z]{2,6})/(USDT|USDC|USD|BUSD)`)
	pairDashRE  = regexp.MustCompile(`(?i)([A-Z]{2,6})-(USDT|USDC|USD)`)
	bareBaseRE  = regexp.MustCompile(`^[A-Za-z]{2,6}$`)

	totalCurrencyRE = regexp.MustCompile(`(?i)^(\d{2,6}(?:[.,]\d{1,6})?)USDT$`)
	totalDecimalRE  = regexp.MustCompile(`^(\d{2,5}[.,]\d{1,6})$`)
	totalIntegerRE  = regexp.MustCompile(`^(\d{3,6})$`)
	totalLabelRE    = regexp.MustCompile(`(?i)total`)

	resultPercentRE = regexp.MustCompile(`^([+-]?\d{1,2}(?:[.,]\d{1,3})?)%$`)
	resultSignedRE  = regexp.MustCompile(`^([+-]\d{1,2}(?:[.,]\d{1,3})?)%?$`)
	resultBareRE    = regexp.MustCompile(`^(\d{1,2}[.,]\d{1,3})$`)
	resultLabelRE   = regexp.MustCompile(`(?i)result`)
)

// extractFields runs the three ordered cascades over one row.
func (x *Extractor) extractFields(row Row) Fields {
	f := Fields{}
	var pairToks, totalToks, resultToks []models.OcrToken
	f.Pair, pairToks = extractPair(row)
	f.Total, totalToks = x.extractTotal(row)
	f.Result, resultToks = extractResult(row, totalToks)
	f.Tokens = append(f.Tokens, pairToks...)
	f.Tokens = append(f.Tokens, totalToks...)
	f.Tokens = append(f.Tokens, resultToks...)
	return f
}

// extractPair walks the pair cascade: slash form, dash form, bare base
// followed by a quote token, then the known-symbol rescue. Reading order is
// the priority order within each level. The normalized form is uppercase
// BASE/QUOTE with USDT as the default quote.
func extractPair(row Row) (string, []models.OcrToken) {
	for _, t := range row.Tokens {
		if m := pairSlashRE.FindStringSubmatch(t.Text); m != nil {
			return strings.ToUpper(m[1] + "/" + m[2]), []models.OcrToken{t}
		}
	}
	for _, t := range row.Tokens {
		if m := pairDashRE.FindStringSubmatch(t.Text); m != nil {
			return strings.ToUpper(m[1] + "/" + m[2]), []models.OcrToken{t}
		}
	}
	for i, t := range row.Tokens {
		base := strings.ToUpper(strings.Trim(t.Text, ".,:()[]"))
		if !bareBaseRE.MatchString(base) || quoteCurrencies[base] || isSellKeyword(base) {
			continue
		}
		if i+1 >= len(row.Tokens) {
			continue
		}
		quote := strings.ToUpper(strings.Trim(row.Tokens[i+1].Text, ".,:/()[]"))
		if quoteCurrencies[quote] {
			return base + "/" + quote, []models.OcrToken{t, row.Tokens[i+1]}
		}
	}
	for _, t := range row.Tokens {
		sym := strings.ToUpper(strings.Trim(t.Text, ".,:/()[]"))
		if knownSymbols[sym] {
			return sym + "/USDT", []models.OcrToken{t}
		}
	}
	return "", nil
}

func isSellKeyword(s string) bool {
	low := strings.ToLower(s)
	for _, kw := range sellKeywords {
		if low == kw {
			return true
		}
	}
	return false
}

type totalCandidate struct {
	value float64
	tok   models.OcrToken
}

// extractTotal walks the total cascade: currency-suffixed amounts, amounts
// next to a Total label, then bare numerics. Single and double digit
// integers never reach the cascade (they are likely dates), and every
// candidate passes the plausible-amount filter. When one level yields
// several candidates the configured selection strategy decides.
func (x *Extractor) extractTotal(row Row) (*float64, []models.OcrToken) {
	levels := [][]totalCandidate{
		totalCurrencyCandidates(row),
		totalLabelCandidates(row),
		totalBareCandidates(row),
	}
	for _, cands := range levels {
		if len(cands) == 0 {
			continue
		}
		best := x.selectTotal(cands, row.Anchor)
		v := best.value
		return &v, []models.OcrToken{best.tok}
	}
	return nil, nil
}

func totalCurrencyCandidates(row Row) []totalCandidate {
	var out []totalCandidate
	for i, t := range row.Tokens {
		if m := totalCurrencyRE.FindStringSubmatch(t.Text); m != nil {
			if v, err := parseNumber(m[1]); err == nil && plausibleTotal(v) {
				out = append(out, totalCandidate{value: v, tok: t})
			}
			continue
		}
		// amount and its USDT suffix segmented into two tokens
		if i+1 < len(row.Tokens) {
			next := strings.ToUpper(strings.Trim(row.Tokens[i+1].Text, ".,:()[]"))
			if quoteCurrencies[next] {
				if v, ok := parseBareAmount(t.Text); ok {
					out = append(out, totalCandidate{value: v, tok: t})
				}
			}
		}
	}
	return out
}

func totalLabelCandidates(row Row) []totalCandidate {
	var out []totalCandidate
	for i, t := range row.Tokens {
		if !totalLabelRE.MatchString(t.Text) {
			continue
		}
		for j := i + 1; j < len(row.Tokens) && j <= i+2; j++ {
			if v, ok := parseBareAmount(row.Tokens[j].Text); ok {
				out = append(out, totalCandidate{value: v, tok: row.Tokens[j]})
				break
			}
		}
	}
	return out
}

func totalBareCandidates(row Row) []totalCandidate {
	var out []totalCandidate
	for _, t := range row.Tokens {
		if v, ok := parseBareAmount(t.Text); ok {
			out = append(out, totalCandidate{value: v, tok: t})
		}
	}
	return out
}

// parseBareAmount accepts a decimal with at least two integer digits or a
// plain integer of at least three digits, filtered for plausibility.
// Shorter integer tokens are likely dates or row counters.
func parseBareAmount(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	m := totalDecimalRE.FindStringSubmatch(text)
	if m == nil {
		m = totalIntegerRE.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	v, err := parseNumber(m[1])
	if err != nil || !plausibleTotal(v) {
		return 0, false
	}
	return v, true
}

func (x *Extractor) selectTotal(cands []totalCandidate, anchor models.OcrToken) totalCandidate {
	best := cands[0]
	for _, c := range cands[1:] {
		switch x.opts.TotalSelection {
		case TotalLargest:
			if c.value > best.value {
				best = c
			}
		default:
			if anchorDistance(c.tok, anchor) < anchorDistance(best.tok, anchor) {
				best = c
			}
		}
	}
	return best
}

func anchorDistance(t, anchor models.OcrToken) int {
	d := t.Box.Min.X - anchor.Box.Min.X
	if d < 0 {
		d = -d
	}
	return d
}

// extractResult walks the result cascade: percent-suffixed, label-adjacent,
// explicitly signed, then bare decimal tokens, first plausible match in
// reading order wins. Tokens already claimed by the total are skipped. When
// the winning match carries no explicit sign but a loose minus glyph exists
// in the row, the magnitude is negated.
func extractResult(row Row, claimed []models.OcrToken) (*float64, []models.OcrToken) {
	type level struct {
		re       *regexp.Regexp
		explicit bool // pattern requires an explicit sign
	}
	levels := []level{
		{re: resultPercentRE},
		{re: nil}, // label-adjacent, handled separately
		{re: resultSignedRE, explicit: true},
		{re: resultBareRE},
	}
	for _, lv := range levels {
		if lv.re == nil {
			if v, tok, ok := resultLabelCandidate(row, claimed); ok {
				if !hasExplicitSign(tok.Text) {
					applyLooseMinus(&v, tok, row)
				}
				return &v, []models.OcrToken{tok}
			}
			continue
		}
		for _, t := range row.Tokens {
			if isClaimed(t, claimed) {
				continue
			}
			m := lv.re.FindStringSubmatch(t.Text)
			if m == nil {
				continue
			}
			v, err := parseNumber(strings.TrimSuffix(m[1], "%"))
			if err != nil || !plausibleResult(v) {
				continue
			}
			if !lv.explicit && !hasExplicitSign(t.Text) {
				applyLooseMinus(&v, t, row)
			}
			return &v, []models.OcrToken{t}
		}
	}
	return nil, nil
}

func resultLabelCandidate(row Row, claimed []models.OcrToken) (float64, models.OcrToken, bool) {
	for i, t := range row.Tokens {
		if !resultLabelRE.MatchString(t.Text) {
			continue
		}
		for j := i + 1; j < len(row.Tokens) && j <= i+2; j++ {
			cand := row.Tokens[j]
			if isClaimed(cand, claimed) {
				continue
			}
			s := strings.TrimSuffix(strings.TrimSpace(cand.Text), "%")
			v, err := parseNumber(s)
			if err != nil || !plausibleResult(v) {
				continue
			}
			return v, cand, true
		}
	}
	return 0, models.OcrToken{}, false
}

// applyLooseMinus negates an unsigned positive match when the row carries a
// detached minus glyph. Letter-bearing tokens (e.g. BTC-USDT) do not count.
func applyLooseMinus(v *float64, chosen models.OcrToken, row Row) {
	if *v <= 0 {
		return
	}
	for _, t := range row.Tokens {
		if sameToken(t, chosen) || !strings.Contains(t.Text, "-") {
			continue
		}
		if !strings.ContainsFunc(t.Text, isLetter) {
			*v = -*v
			return
		}
	}
}

func hasExplicitSign(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isClaimed(t models.OcrToken, claimed []models.OcrToken) bool {
	for _, c := range claimed {
		if sameToken(t, c) {
			return true
		}
	}
	return false
}

func sameToken(a, b models.OcrToken) bool {
	return a.Text == b.Text && a.Box == b.Box
}
