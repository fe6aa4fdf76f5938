package models

import "image"

// OcrToken is one recognized word from a single recognition call.
// Confidence is the engine's word confidence on a 0-100 scale.
type OcrToken struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Height returns the token's bounding-box height in pixels.
func (t OcrToken) Height() int {
	return t.Box.Dy()
}

// MeanConfidence averages the word confidences of a token set.
// Returns 0 for an empty set.
func MeanConfidence(tokens []OcrToken) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range tokens {
		sum += t.Confidence
	}
	return sum / float64(len(tokens))
}
