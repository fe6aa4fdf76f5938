package process

import "sellscan/models"

// SelectBest picks the canonical attempt for one image: the attempt with the
// most trades wins, ties broken by higher mean OCR confidence. Failed
// attempts never win. Returns false when no attempt succeeded.
func SelectBest(attempts []models.RecognitionAttempt) (models.RecognitionAttempt, bool) {
	var best models.RecognitionAttempt
	found := false
	for _, a := range attempts {
		if a.Failed() {
			continue
		}
		if !found {
			best = a
			found = true
			continue
		}
		if len(a.Trades) > len(best.Trades) {
			best = a
		} else if len(a.Trades) == len(best.Trades) && a.Confidence > best.Confidence {
			best = a
		}
	}
	return best, found
}
