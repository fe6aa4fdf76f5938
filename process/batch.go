// Package process drives batches of screenshots through preprocessing, OCR
// and trade extraction, fusing the per-variant attempts of each image into
// one canonical result.
package process

import (
	"context"
	"fmt"
	"image"
	"time"

	"sellscan/config"
	"sellscan/logger"
	"sellscan/models"
	"sellscan/pkg/extract"
	"sellscan/pkg/ocr"
)

// Recognizer is the OCR collaborator contract the processor drives.
type Recognizer interface {
	Recognize(img image.Image) (*ocr.Result, error)
	Close() error
}

// EngineFactory acquires a fresh recognizer. The default builds a tesseract
// engine from the configuration.
type EngineFactory func() (Recognizer, error)

// ImageInput is one screenshot to process; Ref is an opaque identifier
// carried onto the resulting trades.
type ImageInput struct {
	Ref   string
	Image image.Image
}

// Result is the outcome of one batch run.
type Result struct {
	Trades   []models.Trade
	Attempts map[string][]models.RecognitionAttempt
	Failed   []string
}

// Processor runs batches sequentially over a single OCR engine instance.
// The engine is acquired when a run starts and released after the last
// image; it is never invoked concurrently.
type Processor struct {
	cfg        *config.Config
	extractor  *extract.Extractor
	events     Events
	newEngine  EngineFactory
	recTimeout time.Duration
}

func New(cfg *config.Config, events Events) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	if events == nil {
		events = NopEvents{}
	}
	p := &Processor{
		cfg:    cfg,
		events: events,
		extractor: extract.New(extract.Options{
			Anchor:              extract.AnchorStrategy(cfg.Extract.AnchorStrategy),
			TotalSelection:      extract.TotalSelection(cfg.Extract.TotalSelection),
			RowToleranceScale:   cfg.Extract.RowToleranceScale,
			NeighborhoodScale:   cfg.Extract.NeighborhoodScale,
			MinRowConfidence:    cfg.Extract.MinRowConfidence,
			MinAnchorConfidence: cfg.Extract.MinAnchorConfidence,
		}),
		newEngine: func() (Recognizer, error) {
			return ocr.NewEngine(cfg.Engine)
		},
	}
	// -1 in the config disables the per-call bound.
	if cfg.Engine.RecognitionTimeoutSec > 0 {
		p.recTimeout = time.Duration(cfg.Engine.RecognitionTimeoutSec) * time.Second
	}
	return p
}

// SetEngineFactory overrides engine acquisition, mainly for tests.
func (p *Processor) SetEngineFactory(f EngineFactory) {
	p.newEngine = f
}

// Run processes the images in order. Engine initialization failure is fatal
// for the whole batch; per-image and per-variant failures are isolated.
// Cancellation is honored between images and between variants.
func (p *Processor) Run(ctx context.Context, images []ImageInput) (*Result, error) {
	engine, err := p.newEngine()
	if err != nil {
		return nil, fmt.Errorf("acquire ocr engine: %w", err)
	}
	defer func() {
		if engine != nil {
			_ = engine.Close()
		}
	}()

	res := &Result{Attempts: make(map[string][]models.RecognitionAttempt, len(images))}
	total := len(images)
	for i, in := range images {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("batch canceled after %d/%d images: %w", i, total, err)
		}
		attempts, tainted := p.processImage(ctx, engine, in)
		if tainted {
			// A timed-out recognition leaves the engine mid-call; abandon it
			// and acquire a fresh one for the remaining images.
			engine = nil
			if engine, err = p.newEngine(); err != nil {
				return res, fmt.Errorf("reacquire ocr engine: %w", err)
			}
		}
		res.Attempts[in.Ref] = attempts

		best, ok := SelectBest(attempts)
		if !ok {
			logger.Warnf("process: image %s failed on all variants", in.Ref)
			res.Failed = append(res.Failed, in.Ref)
		} else {
			logger.Infof("process: image %s variant=%s trades=%d conf=%.1f",
				in.Ref, best.Variant, len(best.Trades), best.Confidence)
			for _, t := range best.Trades {
				if extract.IsDuplicate(t, res.Trades) {
					logger.Debugf("process: duplicate trade dropped image=%s pair=%s total=%.4f", in.Ref, t.Pair, t.Total)
					continue
				}
				res.Trades = append(res.Trades, t)
			}
			p.events.ImageDone(in.Ref, best.Trades)
		}
		p.events.Progress(Progress{
			Image:   in.Ref,
			Current: i + 1,
			Total:   total,
			Percent: (i + 1) * 100 / total,
		})
	}
	return res, nil
}

// processImage runs every preprocessing variant through OCR and extraction.
// The second return value reports an engine left unusable by a timeout.
func (p *Processor) processImage(ctx context.Context, engine Recognizer, in ImageInput) ([]models.RecognitionAttempt, bool) {
	variants := ocr.Variants(in.Image)
	attempts := make([]models.RecognitionAttempt, 0, len(variants))
	for vi, v := range variants {
		if ctx.Err() != nil {
			break
		}
		attempt := models.RecognitionAttempt{Variant: v.Name}
		rec, err := p.recognize(ctx, engine, v.Image)
		if err != nil {
			logger.Warnf("process: image %s variant %s: %v", in.Ref, v.Name, err)
			attempt.Err = err.Error()
			attempts = append(attempts, attempt)
			p.events.AttemptDone(in.Ref, attempt)
			if isTimeout(err) {
				return attempts, true
			}
			continue
		}
		attempt.Text = rec.Text
		attempt.Tokens = rec.Tokens
		attempt.Confidence = rec.Confidence
		attempt.Trades = p.extractor.Extract(rec.Tokens, in.Ref)
		attempts = append(attempts, attempt)
		p.events.AttemptDone(in.Ref, attempt)
		p.events.Progress(Progress{
			Image:   in.Ref,
			Variant: v.Name,
			Current: vi + 1,
			Total:   len(variants),
			Percent: (vi + 1) * 100 / len(variants),
		})
	}
	return attempts, false
}

type timeoutError struct {
	after time.Duration
	cause error
}

func (e *timeoutError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("recognition aborted (%v): %s", e.cause, ocr.ErrRecognitionFailed)
	}
	return fmt.Sprintf("recognition timed out after %s: %s", e.after, ocr.ErrRecognitionFailed)
}

func (e *timeoutError) Unwrap() error { return ocr.ErrRecognitionFailed }

func isTimeout(err error) bool {
	_, ok := err.(*timeoutError)
	return ok
}

// recognize bounds one recognition call by the configured timeout. On
// timeout the stale call's engine is closed once it eventually returns and
// the attempt is marked failed instead of hanging the batch.
func (p *Processor) recognize(ctx context.Context, engine Recognizer, img image.Image) (*ocr.Result, error) {
	if p.recTimeout <= 0 {
		return engine.Recognize(img)
	}
	type outcome struct {
		res *ocr.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := engine.Recognize(img)
		done <- outcome{res: res, err: err}
	}()
	timer := time.NewTimer(p.recTimeout)
	defer timer.Stop()
	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		go func() { <-done; _ = engine.Close() }()
		return nil, &timeoutError{after: p.recTimeout, cause: ctx.Err()}
	case <-timer.C:
		go func() { <-done; _ = engine.Close() }()
		return nil, &timeoutError{after: p.recTimeout}
	}
}
