// Package extract turns a bag of recognized OCR word tokens into validated
// SELL trade records using spatial row grouping, anchor detection and ordered
// regex cascades with plausibility filters.
package extract

import (
	"strings"

	"sellscan/models"
)

// WordIndex wraps the raw OCR output of one recognition call.
type WordIndex struct {
	tokens []models.OcrToken
}

func NewWordIndex(tokens []models.OcrToken) *WordIndex {
	return &WordIndex{tokens: tokens}
}

func (w *WordIndex) Tokens() []models.OcrToken {
	return w.tokens
}

// AboveConfidence returns the tokens whose word confidence meets min.
func (w *WordIndex) AboveConfidence(min float64) []models.OcrToken {
	out := make([]models.OcrToken, 0, len(w.tokens))
	for _, t := range w.tokens {
		if t.Confidence >= min {
			out = append(out, t)
		}
	}
	return out
}

// Text joins all token texts in input order, for diagnostics.
func (w *WordIndex) Text() string {
	parts := make([]string, 0, len(w.tokens))
	for _, t := range w.tokens {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
