package extract

import (
	"fmt"

	"sellscan/logger"
	"sellscan/models"
)

// Options collects the heuristic knobs of one extraction pass. All values
// have working defaults; see DefaultOptions.
type Options struct {
	Anchor         AnchorStrategy
	TotalSelection TotalSelection
	// RowToleranceScale multiplies the anchor token height to form the row
	// band; NeighborhoodScale widens it when the row misses fields.
	RowToleranceScale float64
	NeighborhoodScale float64
	// Confidence floors: anchors need more than supporting tokens because a
	// false anchor seeds an entire spurious trade.
	MinRowConfidence    float64
	MinAnchorConfidence float64
}

func DefaultOptions() Options {
	return Options{
		Anchor:              AnchorKeyword,
		TotalSelection:      TotalNearest,
		RowToleranceScale:   2.0,
		NeighborhoodScale:   1.5,
		MinRowConfidence:    20,
		MinAnchorConfidence: 30,
	}
}

// Extractor runs the full row-grouping + cascade pipeline for one token set.
type Extractor struct {
	opts Options
}

func New(opts Options) *Extractor {
	if opts.Anchor == "" {
		opts.Anchor = AnchorKeyword
	}
	if opts.TotalSelection == "" {
		opts.TotalSelection = TotalNearest
	}
	if opts.RowToleranceScale <= 0 {
		opts.RowToleranceScale = 2.0
	}
	if opts.NeighborhoodScale < 1 {
		opts.NeighborhoodScale = 1.5
	}
	return &Extractor{opts: opts}
}

// Extract turns one recognition call's tokens into deduplicated trades.
// Each anchor is processed independently; incomplete rows get one widened
// neighborhood pass before assembly.
func (x *Extractor) Extract(tokens []models.OcrToken, sourceImage string) []models.Trade {
	idx := NewWordIndex(tokens)
	rowTokens := idx.AboveConfidence(x.opts.MinRowConfidence)
	anchors := DetectAnchors(idx.AboveConfidence(x.opts.MinAnchorConfidence), x.opts.Anchor)
	if len(anchors) == 0 {
		logger.Debugf("extract: no anchors in %s (text=%q)", sourceImage, snippet(idx.Text(), 120))
		return nil
	}

	var out []models.Trade
	for _, anchor := range anchors {
		tol := rowTolerance(anchor, x.opts.RowToleranceScale)
		row := groupRow(rowTokens, anchor, tol)
		f := x.extractFields(row)
		if !f.complete() {
			wide := groupRow(rowTokens, anchor, tol*x.opts.NeighborhoodScale)
			f = x.fillFromNeighborhood(f, wide)
		}
		debug := fmt.Sprintf("anchor=%q row=%q", anchor.Text, snippet(row.Text(), 160))
		t, ok := BuildTrade(f, sourceImage, debug)
		if !ok {
			logger.Debugf("extract: anchor %q yielded no pair, dropped (row=%q)", anchor.Text, snippet(row.Text(), 80))
			continue
		}
		if IsDuplicate(t, out) {
			logger.Debugf("extract: duplicate candidate dropped pair=%s total=%.4f result=%.2f", t.Pair, t.Total, t.Result)
			continue
		}
		out = append(out, t)
	}
	return out
}

// fillFromNeighborhood re-runs the cascades over the widened row and fills
// only the fields the narrow pass missed. Tokens are merged per field so the
// confidence mean only counts contributors.
func (x *Extractor) fillFromNeighborhood(f Fields, wide Row) Fields {
	if f.Pair == "" {
		if pair, toks := extractPair(wide); pair != "" {
			f.Pair = pair
			f.Tokens = append(f.Tokens, toks...)
		}
	}
	if f.Total == nil {
		if total, toks := x.extractTotal(wide); total != nil {
			f.Total = total
			f.Tokens = append(f.Tokens, toks...)
		}
	}
	if f.Result == nil {
		if result, toks := extractResult(wide, f.Tokens); result != nil {
			f.Result = result
			f.Tokens = append(f.Tokens, toks...)
		}
	}
	return f
}
