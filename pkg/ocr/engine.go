// Package ocr wraps the tesseract collaborator behind a small engine type
// with a scoped lifetime and word-level token output.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"sellscan/config"
	"sellscan/models"
)

// Result is one recognition call's output: the plain text, the mean word
// confidence (0-100) and the word tokens with bounding boxes.
type Result struct {
	Text       string
	Confidence float64
	Tokens     []models.OcrToken
}

// Engine owns one tesseract client. It is a shared mutable resource: it must
// not be used from two logical operations at once, and the batch processor
// serializes all calls through it.
type Engine struct {
	client *gosseract.Client
}

// NewEngine configures a tesseract client with the trading-interface
// character whitelist and page segmentation mode. Configuration values are
// passed through unchanged.
func NewEngine(cfg config.EngineConfig) (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language %q: %w", cfg.Language, ErrEngineUnavailable)
	}
	if err := client.SetWhitelist(cfg.Whitelist); err != nil {
		client.Close()
		return nil, fmt.Errorf("set whitelist: %w", ErrEngineUnavailable)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page seg mode %d: %w", cfg.PageSegMode, ErrEngineUnavailable)
	}
	// LSTM engine only; trading UI glyphs confuse the legacy recognizer.
	_ = client.SetVariable("tessedit_ocr_engine_mode", "1")
	return &Engine{client: client}, nil
}

// Close releases the tesseract client.
func (e *Engine) Close() error {
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Recognize runs OCR over one image and returns text plus word tokens.
// When the build yields no word boxes, tokens are synthesized from the text
// lines with pseudo positions so extraction can still run.
func (e *Engine) Recognize(img image.Image) (*Result, error) {
	if e.client == nil {
		return nil, fmt.Errorf("engine closed: %w", ErrRecognitionFailed)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", ErrRecognitionFailed)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", ErrRecognitionFailed)
	}
	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr text: %w", ErrRecognitionFailed)
	}
	res := &Result{Text: normalizeText(text)}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		res.Tokens = tokensFromText(text)
	} else {
		for _, b := range boxes {
			word := strings.TrimSpace(b.Word)
			if word == "" {
				continue
			}
			res.Tokens = append(res.Tokens, models.OcrToken{
				Text:       word,
				Box:        b.Box,
				Confidence: b.Confidence,
			})
		}
	}
	res.Confidence = models.MeanConfidence(res.Tokens)
	return res, nil
}

// tokensFromText synthesizes word tokens from plain OCR text: each line
// becomes a pseudo row, words get cumulative x offsets. Confidence is a
// neutral midpoint since no per-word score exists.
func tokensFromText(text string) []models.OcrToken {
	// Line spacing puts adjacent lines outside the base row band (2x token
	// height) but inside the widened neighborhood band (3x), approximating
	// the original line-context behavior for box-less builds.
	const (
		lineHeight   = 3 * fallbackLineHeight
		synthConf    = 50
		synthCharPx  = 10
		synthSpacePx = 6
	)
	var out []models.OcrToken
	for li, line := range strings.Split(text, "\n") {
		x := 0
		y := li * lineHeight
		for _, word := range strings.Fields(line) {
			w := len(word) * synthCharPx
			out = append(out, models.OcrToken{
				Text:       word,
				Box:        image.Rect(x, y, x+w, y+fallbackLineHeight),
				Confidence: synthConf,
			})
			x += w + synthSpacePx
		}
	}
	return out
}

const fallbackLineHeight = 16
