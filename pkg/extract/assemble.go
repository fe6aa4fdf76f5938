package extract

import (
	"math"

	"sellscan/models"
)

// BuildTrade assembles a Trade from extracted fields. Pair is mandatory;
// without it no trade is produced. Missing Total/Result default to zero and
// flag the trade for correction. Profit is always derived, and confidence is
// the rounded mean of the contributing tokens' word confidences.
func BuildTrade(f Fields, sourceImage, debug string) (models.Trade, bool) {
	if f.Pair == "" {
		return models.Trade{}, false
	}
	t := models.Trade{
		ID:           models.NewTradeID(),
		Pair:         f.Pair,
		SourceImage:  sourceImage,
		DebugContext: debug,
		Confidence:   int(math.Round(models.MeanConfidence(f.Tokens))),
	}
	if f.Total != nil {
		t.Total = *f.Total
	} else {
		t.NeedsCorrection = true
	}
	if f.Result != nil {
		t.Result = *f.Result
	} else {
		t.NeedsCorrection = true
	}
	t.RecomputeProfit()
	return t, true
}

func (f Fields) complete() bool {
	return f.Pair != "" && f.Total != nil && f.Result != nil
}
