// Package extract crops a document type's field regions out of page images
// and runs each through the OCR engine, producing one extraction record per
// document. Field-level failures leave the field blank and never abort the
// document; only a document with no readable pages fails as a whole.
package extract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/regscan/regscan/internal/document"
	"github.com/regscan/regscan/internal/imaging"
	"github.com/regscan/regscan/internal/normalize"
	"github.com/regscan/regscan/internal/ocr"
)

// Extractor reads field regions through an OCR engine.
type Extractor struct {
	engine ocr.Engine
	opts   Options
	log    *slog.Logger
}

// Options tunes extraction.
type Options struct {
	// DefaultLanguages applies to regions without their own hints.
	DefaultLanguages []string
	// DPI is the rasterization resolution of the page images.
	DPI int
	// Deskew straightens pages whose estimated skew exceeds the minimum
	// before cropping. Tilted scans shift region boxes off their fields.
	Deskew bool
	// ThresholdCut is the binarization cut for regions flagged Threshold.
	ThresholdCut uint8
}

// New returns an extractor recognizing through engine.
func New(engine ocr.Engine, opts Options, log *slog.Logger) *Extractor {
	if opts.ThresholdCut == 0 {
		opts.ThresholdCut = 120
	}
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{engine: engine, opts: opts, log: log}
}

// ExtractDocument builds the extraction record for one document. The record
// always contains every field the layout defines; fields whose region could
// not be read stay blank.
func (e *Extractor) ExtractDocument(ctx context.Context, doc *document.SourceDocument, layout *document.Layout) (*document.ExtractionRecord, error) {
	rec := document.NewRecord(doc.Name, layout)

	pages := make(map[int][]document.FieldRegion)
	for _, region := range layout.Regions {
		pages[region.Page] = append(pages[region.Page], region)
	}

	readable := 0
	for pageNum, regions := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := e.loadPage(doc, pageNum)
		if err != nil {
			e.log.Warn("extract: page unreadable, fields left blank",
				"document", doc.Name, "page", pageNum, "error", err)
			continue
		}
		readable++
		for _, region := range regions {
			value, err := e.readRegion(ctx, img, layout, region)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				e.log.Warn("extract: region read failed, field left blank",
					"document", doc.Name, "field", region.Name, "error", err)
				continue
			}
			rec.Fields[region.Name] = value
		}
	}
	if readable == 0 {
		return nil, fmt.Errorf("%s: %w", doc.Path, document.ErrNoPages)
	}
	return rec, nil
}

func (e *Extractor) loadPage(doc *document.SourceDocument, pageNum int) (image.Image, error) {
	path := doc.Page(pageNum)
	if path == "" {
		return nil, fmt.Errorf("document has no page %d", pageNum)
	}
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	if e.opts.Deskew {
		img = imaging.Deskew(img)
	}
	return img, nil
}

// readRegion crops and preprocesses one field region and recognizes it.
func (e *Extractor) readRegion(ctx context.Context, page image.Image, layout *document.Layout, region document.FieldRegion) (document.FieldValue, error) {
	box := scaleBox(region.Box, layout, page.Bounds())
	if box.Empty() {
		return document.FieldValue{}, fmt.Errorf("region %s outside page bounds", region.Name)
	}
	cropped := imaging.Crop(page, image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H))

	var prepared image.Image = cropped
	if region.Threshold {
		prepared = imaging.Threshold(imaging.Grayscale(prepared), e.opts.ThresholdCut)
	}
	if region.Blur {
		prepared = imaging.BoxBlur(imaging.Grayscale(prepared), 1)
	}
	if region.Scale {
		prepared = imaging.Scale(prepared, 3)
	}

	encoded, err := imaging.EncodePNG(prepared)
	if err != nil {
		return document.FieldValue{}, err
	}

	opts := []ocr.InputOption{ocr.WithDPI(e.opts.DPI)}
	if len(region.Languages) > 0 {
		opts = append(opts, ocr.WithLanguages(region.Languages...))
	} else if len(e.opts.DefaultLanguages) > 0 {
		opts = append(opts, ocr.WithLanguages(e.opts.DefaultLanguages...))
	}
	if region.PSM > 0 {
		opts = append(opts, ocr.WithPSM(region.PSM))
	}

	res, err := e.engine.Recognize(ctx, ocr.NewInput(encoded, opts...))
	if err != nil {
		return document.FieldValue{}, err
	}
	return normalize.Field(res.Text, region.Kind), nil
}

// scaleBox maps a region box from the layout's reference page size onto the
// actual page image, which may have been rasterized at a different DPI.
func scaleBox(b document.Box, layout *document.Layout, bounds image.Rectangle) document.Box {
	if layout.RefWidth <= 0 || layout.RefHeight <= 0 {
		return b
	}
	sx := float64(bounds.Dx()) / float64(layout.RefWidth)
	sy := float64(bounds.Dy()) / float64(layout.RefHeight)
	if sx == 1 && sy == 1 {
		return b
	}
	return document.Box{
		X: int(math.Round(float64(b.X) * sx)),
		Y: int(math.Round(float64(b.Y) * sy)),
		W: int(math.Round(float64(b.W) * sx)),
		H: int(math.Round(float64(b.H) * sy)),
	}
}
