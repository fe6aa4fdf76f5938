package process

import "sellscan/models"

// Progress is emitted after each image and after each variant attempt.
// Consumers observe monotonically non-decreasing counts.
type Progress struct {
	Image   string
	Variant string
	Current int
	Total   int
	Percent int
}

// Events is the explicit sink the batch processor reports through, replacing
// implicit state mutation with an observable channel the caller owns.
type Events interface {
	Progress(p Progress)
	AttemptDone(image string, attempt models.RecognitionAttempt)
	ImageDone(image string, trades []models.Trade)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) Progress(Progress)                             {}
func (NopEvents) AttemptDone(string, models.RecognitionAttempt) {}
func (NopEvents) ImageDone(string, []models.Trade)              {}
