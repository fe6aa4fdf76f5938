package ocr

import "errors"

// ErrEngineUnavailable means the OCR collaborator failed to initialize.
// It is fatal for a whole batch and reported once.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// ErrRecognitionFailed means one image/variant attempt failed. The attempt
// is skipped and processing continues with the remaining work.
var ErrRecognitionFailed = errors.New("recognition failed")
