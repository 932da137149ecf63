// Package classify assigns a document type to a converted filing by
// recognizing its first page and fuzzy-matching the page text against the
// known form titles, then relocates the document into a type bucket.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/regscan/regscan/internal/document"
	"github.com/regscan/regscan/internal/imaging"
	"github.com/regscan/regscan/internal/ocr"
)

// Unclassified is the bucket label for documents matching no known title.
// Landing there is a routing outcome, not an error.
const Unclassified = "Unclassified"

// nonHKBucket is the sub-bucket for filings of registered non-Hong Kong
// companies, which use a variant form layout.
const nonHKBucket = "Registered Non-Hong Kong Companies"

// Outcome is a classification decision for one document.
type Outcome struct {
	// Label is the matched document type, or Unclassified.
	Label string
	// Score is the fuzzy similarity of the best title match in [0,1].
	Score float64
	// NonHongKong marks filings of registered non-Hong Kong companies.
	NonHongKong bool
}

// Classifier recognizes first pages and routes documents into type buckets.
type Classifier struct {
	engine    ocr.Engine
	titles    []string
	threshold float64
	languages []string
	dpi       int
	log       *slog.Logger
}

// Config carries the classifier's tuning.
type Config struct {
	// Titles are the known form titles to match against.
	Titles []string
	// Threshold is the minimum fuzzy similarity for a match. The default
	// 0.8 tolerates one or two OCR character substitutions in a title.
	Threshold float64
	// Languages are the OCR language hints for title pages.
	Languages []string
	// DPI is the page image resolution hint passed to the engine.
	DPI int
}

// New returns a classifier recognizing through engine.
func New(engine ocr.Engine, cfg Config, log *slog.Logger) *Classifier {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.8
	}
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{
		engine:    engine,
		titles:    cfg.Titles,
		threshold: cfg.Threshold,
		languages: cfg.Languages,
		dpi:       cfg.DPI,
		log:       log,
	}
}

// Classify recognizes the document's first page and returns the matched
// type. OCR failure on the title page is an error for this document only.
func (c *Classifier) Classify(ctx context.Context, doc *document.SourceDocument) (Outcome, error) {
	page := doc.Page(1)
	if page == "" {
		return Outcome{Label: Unclassified}, fmt.Errorf("%s: %w", doc.Path, document.ErrNoPages)
	}
	img, err := imaging.Load(page)
	if err != nil {
		return Outcome{Label: Unclassified}, err
	}
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return Outcome{Label: Unclassified}, err
	}
	res, err := c.engine.Recognize(ctx, ocr.NewInput(encoded,
		ocr.WithLanguages(c.languages...),
		ocr.WithDPI(c.dpi),
	))
	if err != nil {
		return Outcome{Label: Unclassified}, fmt.Errorf("recognize title page: %w", err)
	}
	out := c.MatchText(res.Text)
	c.log.Debug("classify: decided",
		"document", doc.Name, "label", out.Label, "score", out.Score)
	return out, nil
}

// MatchText classifies already-recognized first-page text.
func (c *Classifier) MatchText(pageText string) Outcome {
	label, score := BestMatch(pageText, c.titles)
	out := Outcome{Label: Unclassified, Score: score}
	if label != "" && score >= c.threshold {
		out.Label = label
		out.NonHongKong = strings.Contains(pageText, "Non-Hong Kong") ||
			strings.Contains(pageText, "Ordinance")
	}
	return out
}

// Relocate moves the document's image directory into the categorized tree:
// root/<Label>/<doc>, with non-Hong Kong filings nested one bucket deeper.
// It returns the new document directory.
func (c *Classifier) Relocate(doc *document.SourceDocument, root string, out Outcome) (string, error) {
	bucket := filepath.Join(root, out.Label)
	if out.NonHongKong && out.Label != Unclassified {
		bucket = filepath.Join(bucket, nonHKBucket)
	}
	if err := os.MkdirAll(bucket, 0o755); err != nil {
		return "", fmt.Errorf("create bucket directory: %w", err)
	}
	dest := filepath.Join(bucket, doc.Name)
	// A forced re-conversion replaces the previously routed copy.
	if _, err := os.Stat(dest); err == nil {
		if err := os.RemoveAll(dest); err != nil {
			return "", fmt.Errorf("replace routed document: %w", err)
		}
	}
	if err := os.Rename(doc.Path, dest); err != nil {
		return "", fmt.Errorf("relocate document: %w", err)
	}
	return dest, nil
}
