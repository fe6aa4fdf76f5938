package extract

import (
	"sort"
	"strings"

	"sellscan/models"
)

// fallbackTokenHeight stands in for synthesized tokens with empty boxes.
const fallbackTokenHeight = 16

// Row is a left-to-right ordered run of tokens sharing the anchor's
// vertical band. Insertion order is reading order.
type Row struct {
	Anchor models.OcrToken
	Tokens []models.OcrToken
}

// Text joins the row's token texts in reading order.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// groupRow collects tokens whose top edge lies within tol of the anchor's
// top edge and sorts them ascending by X0 to reconstruct reading order.
// The caller pre-filters tokens by confidence.
func groupRow(tokens []models.OcrToken, anchor models.OcrToken, tol float64) Row {
	row := Row{Anchor: anchor}
	for _, t := range tokens {
		dy := float64(t.Box.Min.Y - anchor.Box.Min.Y)
		if dy < 0 {
			dy = -dy
		}
		if dy <= tol {
			row.Tokens = append(row.Tokens, t)
		}
	}
	sort.SliceStable(row.Tokens, func(i, j int) bool {
		return row.Tokens[i].Box.Min.X < row.Tokens[j].Box.Min.X
	})
	return row
}

// rowTolerance derives the vertical band from the anchor token height.
func rowTolerance(anchor models.OcrToken, scale float64) float64 {
	h := anchor.Height()
	if h <= 0 {
		h = fallbackTokenHeight
	}
	return scale * float64(h)
}
