package extract

import (
	"testing"

	"sellscan/models"
)

func TestWordIndexAboveConfidence(t *testing.T) {
	idx := NewWordIndex([]models.OcrToken{
		tok("SELL", 10, 100, 92),
		tok("noise", 50, 100, 12),
		tok("274.12", 90, 100, 20),
	})
	kept := idx.AboveConfidence(20)
	if len(kept) != 2 {
		t.Fatalf("expected 2 tokens at or above the floor, got %d", len(kept))
	}
	for _, k := range kept {
		if k.Confidence < 20 {
			t.Fatalf("token %q below floor survived", k.Text)
		}
	}
}

func TestWordIndexText(t *testing.T) {
	idx := NewWordIndex([]models.OcrToken{
		tok("SELL", 10, 100, 92),
		tok("  ", 30, 100, 50),
		tok("SQR/USDT", 50, 100, 88),
	})
	if got := idx.Text(); got != "SELL SQR/USDT" {
		t.Fatalf("Text() = %q", got)
	}
}
