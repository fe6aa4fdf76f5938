package models

// RecognitionAttempt is the outcome of running one preprocessing variant of
// one image through OCR and extraction. Attempts only exist while the best
// variant for an image is being selected; losing attempts keep their
// diagnostic text but their trades are never merged.
type RecognitionAttempt struct {
	Variant    string
	Text       string
	Tokens     []OcrToken
	Confidence float64
	Trades     []Trade
	Err        string
}

// Failed reports whether the attempt produced no usable recognition.
func (a RecognitionAttempt) Failed() bool {
	return a.Err != ""
}
