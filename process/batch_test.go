package process

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellscan/config"
	"sellscan/models"
	"sellscan/pkg/ocr"
)

// fakeRecognizer replays a fixed token set for every call, optionally
// failing the first call of each image's variant run.
type fakeRecognizer struct {
	tokens    []models.OcrToken
	calls     int
	failCalls map[int]bool
	closed    bool
}

func (f *fakeRecognizer) Recognize(image.Image) (*ocr.Result, error) {
	f.calls++
	if f.failCalls[f.calls] {
		return nil, ocr.ErrRecognitionFailed
	}
	return &ocr.Result{
		Text:       "SELL SQR/USDT 274.1200 +6.26%",
		Confidence: models.MeanConfidence(f.tokens),
		Tokens:     f.tokens,
	}, nil
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func sellTokens() []models.OcrToken {
	mk := func(text string, x int, conf float64) models.OcrToken {
		return models.OcrToken{Text: text, Box: image.Rect(x, 100, x+40, 116), Confidence: conf}
	}
	return []models.OcrToken{
		mk("SELL", 10, 92),
		mk("SQR/USDT", 50, 88),
		mk("274.1200", 130, 90),
		mk("+6.26%", 200, 94),
	}
}

func testImages(n int) []ImageInput {
	imgs := make([]ImageInput, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, ImageInput{
			Ref:   string(rune('a'+i)) + ".png",
			Image: image.NewNRGBA(image.Rect(0, 0, 16, 16)),
		})
	}
	return imgs
}

// progressRecorder captures image-level progress for monotonicity checks.
type progressRecorder struct {
	mu       sync.Mutex
	currents []int
	attempts int
}

func (r *progressRecorder) Progress(p Progress) {
	if p.Variant != "" {
		return
	}
	r.mu.Lock()
	r.currents = append(r.currents, p.Current)
	r.mu.Unlock()
}

func (r *progressRecorder) AttemptDone(string, models.RecognitionAttempt) {
	r.mu.Lock()
	r.attempts++
	r.mu.Unlock()
}

func (r *progressRecorder) ImageDone(string, []models.Trade) {}

func newTestProcessor(t *testing.T, events Events, rec Recognizer) *Processor {
	t.Helper()
	p := New(config.Default(), events)
	p.SetEngineFactory(func() (Recognizer, error) { return rec, nil })
	return p
}

func TestRunMergesOnlyWinningAttempt(t *testing.T) {
	rec := &fakeRecognizer{tokens: sellTokens()}
	p := newTestProcessor(t, nil, rec)

	res, err := p.Run(context.Background(), testImages(1))
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "SQR/USDT", res.Trades[0].Pair)
	assert.InDelta(t, 274.12, res.Trades[0].Total, 1e-9)
	// one attempt per preprocessing variant, all recorded for diagnostics
	assert.Len(t, res.Attempts["a.png"], 4)
	assert.True(t, rec.closed, "engine must be released after the batch")
}

func TestRunDeduplicatesAcrossImages(t *testing.T) {
	rec := &fakeRecognizer{tokens: sellTokens()}
	p := newTestProcessor(t, nil, rec)

	res, err := p.Run(context.Background(), testImages(2))
	require.NoError(t, err)
	// both images see the identical trade; only one survives
	assert.Len(t, res.Trades, 1)
}

func TestRunProgressIsMonotonic(t *testing.T) {
	rec := &fakeRecognizer{tokens: sellTokens()}
	events := &progressRecorder{}
	p := newTestProcessor(t, events, rec)

	_, err := p.Run(context.Background(), testImages(3))
	require.NoError(t, err)
	require.Len(t, events.currents, 3)
	for i := 1; i < len(events.currents); i++ {
		assert.Greater(t, events.currents[i], events.currents[i-1])
	}
}

func TestRunIsolatesFailedVariants(t *testing.T) {
	rec := &fakeRecognizer{tokens: sellTokens(), failCalls: map[int]bool{1: true}}
	p := newTestProcessor(t, nil, rec)

	res, err := p.Run(context.Background(), testImages(1))
	require.NoError(t, err)
	// the raw variant failed but the other variants carried the image
	require.Len(t, res.Trades, 1)
	var failed int
	for _, a := range res.Attempts["a.png"] {
		if a.Failed() {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Empty(t, res.Failed)
}

// blockingRecognizer hangs every call until released, simulating a tesseract
// call that never returns.
type blockingRecognizer struct {
	release chan struct{}
	mu      sync.Mutex
	closed  bool
}

func (b *blockingRecognizer) Recognize(image.Image) (*ocr.Result, error) {
	<-b.release
	return nil, ocr.ErrRecognitionFailed
}

func (b *blockingRecognizer) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

func (b *blockingRecognizer) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func TestRunRecoversFromStuckRecognition(t *testing.T) {
	stuck := &blockingRecognizer{release: make(chan struct{})}
	good := &fakeRecognizer{tokens: sellTokens()}
	engines := []Recognizer{stuck, good}
	acquired := 0
	p := New(config.Default(), nil)
	p.SetEngineFactory(func() (Recognizer, error) {
		e := engines[acquired]
		acquired++
		return e, nil
	})
	p.recTimeout = 20 * time.Millisecond

	res, err := p.Run(context.Background(), testImages(2))
	require.NoError(t, err)

	// first image fails on its first variant and is abandoned as a whole
	require.Equal(t, 2, acquired, "a fresh engine must replace the stuck one")
	attempts := res.Attempts["a.png"]
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Failed())
	assert.Contains(t, res.Failed, "a.png")

	// second image runs normally on the replacement engine
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "SQR/USDT", res.Trades[0].Pair)
	assert.True(t, good.closed, "replacement engine must be released after the batch")

	// once the stale call finally returns, the abandoned engine is closed too
	assert.False(t, stuck.isClosed())
	close(stuck.release)
	assert.Eventually(t, stuck.isClosed, time.Second, 5*time.Millisecond)
}

func TestRunEngineInitFailureIsFatal(t *testing.T) {
	p := New(config.Default(), nil)
	p.SetEngineFactory(func() (Recognizer, error) {
		return nil, ocr.ErrEngineUnavailable
	})
	_, err := p.Run(context.Background(), testImages(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ocr.ErrEngineUnavailable))
}

func TestRunHonorsCancellation(t *testing.T) {
	rec := &fakeRecognizer{tokens: sellTokens()}
	p := newTestProcessor(t, nil, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, testImages(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
