// Package tesseract adapts the gosseract client to the pipeline's Engine
// interface.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/regscan/regscan/internal/ocr"
)

// Engine recognizes text with a local Tesseract installation. Each Recognize
// call uses a fresh client, so independent documents can run concurrently
// without sharing native state.
type Engine struct {
	clientFactory func() *gosseract.Client
	// defaultLangs applies when an input carries no language hints.
	defaultLangs []string
}

// New returns a Tesseract-backed engine. defaultLangs applies to inputs
// without explicit language hints.
func New(defaultLangs ...string) *Engine {
	return &Engine{
		clientFactory: gosseract.NewClient,
		defaultLangs:  defaultLangs,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image region.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	langs := in.Languages
	if len(langs) == 0 {
		langs = e.defaultLangs
	}
	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return ocr.Result{
		Text:       strings.TrimRight(text, "\n"),
		Confidence: meanConfidence(c),
	}, nil
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
