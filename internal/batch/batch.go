// Package batch orchestrates the pipeline across whole directories:
// conversion plus classification of an input directory of PDFs, and field
// extraction over a categorized bucket. Documents are independent, so both
// operations offer an embarrassingly-parallel mode backed by a capped worker
// pool; a single document's failure is recorded and never aborts the batch.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/regscan/regscan/internal/classify"
	"github.com/regscan/regscan/internal/config"
	"github.com/regscan/regscan/internal/document"
	"github.com/regscan/regscan/internal/extract"
	"github.com/regscan/regscan/internal/layout"
	"github.com/regscan/regscan/internal/ocr"
	"github.com/regscan/regscan/internal/rasterize"
)

// Runner wires the pipeline components together for directory-level
// operations.
type Runner struct {
	cfg        *config.Config
	engine     ocr.Engine
	rasterizer rasterize.Rasterizer
	layouts    *layout.Registry
	classifier *classify.Classifier
	log        *slog.Logger
}

// NewRunner builds a runner from explicit collaborators. Passing a stub
// engine or rasterizer substitutes the external services in tests.
func NewRunner(cfg *config.Config, engine ocr.Engine, r rasterize.Rasterizer, layouts *layout.Registry, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	classifier := classify.New(engine, classify.Config{
		Titles:    cfg.Classify.Titles,
		Threshold: cfg.Classify.Threshold,
		Languages: cfg.OCR.Languages,
		DPI:       cfg.Rasterize.DPI,
	}, log)
	return &Runner{
		cfg:        cfg,
		engine:     engine,
		rasterizer: r,
		layouts:    layouts,
		classifier: classifier,
		log:        log,
	}
}

// Layouts exposes the runner's layout registry.
func (r *Runner) Layouts() *layout.Registry { return r.layouts }

// ConvertOptions tunes ConvertAndClassify.
type ConvertOptions struct {
	Parallel bool
	// Force re-converts documents whose output directory already exists.
	Force    bool
	Progress Progress
}

// DocumentFailure records one document that could not be processed.
type DocumentFailure struct {
	Name string
	Err  string
}

// ConvertSummary reports the outcome of one conversion run.
type ConvertSummary struct {
	RunID string
	// ConvertedRoot and CategorizedRoot are the sibling directories the run
	// produced.
	ConvertedRoot   string
	CategorizedRoot string
	Converted       int
	Skipped         int
	// Classified counts routed documents per bucket label.
	Classified map[string]int
	Failed     []DocumentFailure
}

// ConvertAndClassify rasterizes every PDF in dir into <dir>_converted and
// routes each converted document into a type bucket under
// <dir>_categorized. Individual documents that cannot be converted or
// classified are recorded in the summary; only an unusable input directory
// fails the operation.
func (r *Runner) ConvertAndClassify(ctx context.Context, dir string, opts ConvertOptions) (*ConvertSummary, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input directory %s: %w", dir, errOrNotDir(err))
	}
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}

	finder, err := rasterize.NewFinder(r.cfg.Paths.Include, r.cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	pdfs, err := finder.FindPDFs(dir)
	if err != nil {
		return nil, err
	}

	summary := &ConvertSummary{
		RunID:           uuid.NewString(),
		ConvertedRoot:   dir + "_converted",
		CategorizedRoot: dir + "_categorized",
		Classified:      make(map[string]int),
	}
	progress.OnConvertStart(len(pdfs))
	progress.OnClassifyStart(len(pdfs))

	var mu sync.Mutex
	processOne := func(pdf string) {
		name, outcome := r.convertAndRoute(ctx, pdf, summary.ConvertedRoot, summary.CategorizedRoot, opts.Force, progress)
		mu.Lock()
		defer mu.Unlock()
		switch {
		case outcome.err != nil:
			summary.Failed = append(summary.Failed, DocumentFailure{Name: name, Err: outcome.err.Error()})
		case outcome.skipped:
			summary.Skipped++
			summary.Classified[outcome.label]++
		default:
			summary.Converted++
			summary.Classified[outcome.label]++
		}
	}

	if opts.Parallel {
		p := pool.New().WithMaxGoroutines(r.cfg.WorkerCount())
		for _, pdf := range pdfs {
			pdf := pdf
			p.Go(func() {
				if ctx.Err() != nil {
					return
				}
				processOne(pdf)
			})
		}
		p.Wait()
	} else {
		for _, pdf := range pdfs {
			if ctx.Err() != nil {
				break
			}
			processOne(pdf)
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	sort.Slice(summary.Failed, func(i, j int) bool { return summary.Failed[i].Name < summary.Failed[j].Name })
	return summary, nil
}

type routeOutcome struct {
	label   string
	skipped bool
	err     error
}

// convertAndRoute handles one PDF end to end: rasterize, classify, relocate.
func (r *Runner) convertAndRoute(ctx context.Context, pdf, convertedRoot, categorizedRoot string, force bool, progress Progress) (string, routeOutcome) {
	base := strings.TrimSuffix(filepath.Base(pdf), filepath.Ext(pdf))
	// Classification moves the converted directory into its bucket, so a
	// re-run must look there to stay a no-op.
	if !force {
		if label := findCategorized(categorizedRoot, base); label != "" {
			progress.OnConverted(pdf, 0, true, nil)
			progress.OnClassified(base, label, nil)
			return base, routeOutcome{label: label, skipped: true}
		}
	}

	outDir, pages, skipped, err := rasterize.Convert(ctx, r.rasterizer, pdf, convertedRoot, force)
	progress.OnConverted(pdf, pages, skipped, err)
	if err != nil {
		r.log.Warn("batch: conversion failed", "pdf", pdf, "error", err)
		return pdf, routeOutcome{err: err}
	}

	doc, err := document.LoadSourceDocument(outDir)
	if err != nil {
		progress.OnClassified(outDir, "", err)
		return pdf, routeOutcome{skipped: skipped, err: err}
	}
	outcome, err := r.classifier.Classify(ctx, doc)
	if err != nil {
		// Unclassifiable is routed, not failed: the document lands in the
		// Unclassified bucket for manual review.
		r.log.Warn("batch: classification failed, routing to Unclassified",
			"document", doc.Name, "error", err)
		outcome = classify.Outcome{Label: classify.Unclassified}
	}
	if _, err := r.classifier.Relocate(doc, categorizedRoot, outcome); err != nil {
		progress.OnClassified(doc.Name, outcome.Label, err)
		return doc.Name, routeOutcome{skipped: skipped, err: err}
	}
	progress.OnClassified(doc.Name, outcome.Label, nil)
	return doc.Name, routeOutcome{label: outcome.Label, skipped: skipped}
}

// ExtractOptions tunes ProcessDirectory.
type ExtractOptions struct {
	Parallel bool
	Progress Progress
}

// ProcessDirectory extracts every document in a categorized bucket directory
// as the given type and aggregates the records into one table. Rows are
// sorted by source name, so sequential and parallel runs produce identical
// tables. A document whose images cannot be read becomes a flagged error
// row.
func (r *Runner) ProcessDirectory(ctx context.Context, bucketDir, typeLabel string, opts ExtractOptions) (*document.ResultTable, error) {
	lay, err := r.layouts.Lookup(typeLabel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(bucketDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("bucket directory %s: %w", bucketDir, errOrNotDir(err))
	}
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}

	docDirs, err := listDocumentDirs(bucketDir)
	if err != nil {
		return nil, err
	}
	progress.OnExtractStart(len(docDirs))

	extractor := extract.New(r.engine, extract.Options{
		DefaultLanguages: r.cfg.OCR.Languages,
		DPI:              r.cfg.Rasterize.DPI,
		Deskew:           true,
	}, r.log)

	table := document.NewResultTable(lay, uuid.NewString())

	processOne := func(dir string) *document.ExtractionRecord {
		rec := r.extractOne(ctx, extractor, dir, lay)
		progress.OnExtracted(rec.Source, recErr(rec))
		return rec
	}

	if opts.Parallel {
		p := pool.NewWithResults[*document.ExtractionRecord]().WithMaxGoroutines(r.cfg.WorkerCount())
		for _, dir := range docDirs {
			dir := dir
			p.Go(func() *document.ExtractionRecord {
				if ctx.Err() != nil {
					return nil
				}
				return processOne(dir)
			})
		}
		for _, rec := range p.Wait() {
			if rec != nil {
				table.Append(rec)
			}
		}
	} else {
		for _, dir := range docDirs {
			if ctx.Err() != nil {
				break
			}
			table.Append(processOne(dir))
		}
	}
	if err := ctx.Err(); err != nil {
		return table, err
	}

	table.SortBySource()
	return table, nil
}

// extractOne never fails the batch: an unreadable document becomes an error
// record.
func (r *Runner) extractOne(ctx context.Context, extractor *extract.Extractor, dir string, lay *document.Layout) *document.ExtractionRecord {
	doc, err := document.LoadSourceDocument(dir)
	if err != nil {
		return document.ErrorRecord(filepath.Base(dir), lay, err)
	}
	rec, err := extractor.ExtractDocument(ctx, doc, lay)
	if err != nil {
		return document.ErrorRecord(doc.Name, lay, err)
	}
	return rec
}

// findCategorized reports the bucket label a document was previously routed
// to, or "" when the document is not in the categorized tree. A directory
// counts as the document only when it holds page images, so bucket names
// never shadow document names.
func findCategorized(categorizedRoot, name string) string {
	var label string
	filepath.WalkDir(categorizedRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == categorizedRoot {
			return nil
		}
		if filepath.Base(path) != name || !hasPageImages(path) {
			return nil
		}
		rel, relErr := filepath.Rel(categorizedRoot, path)
		if relErr != nil {
			return nil
		}
		label = strings.Split(rel, string(os.PathSeparator))[0]
		return fs.SkipAll
	})
	return label
}

func hasPageImages(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "page_") {
			return true
		}
	}
	return false
}

// listDocumentDirs returns the bucket's per-document image directories.
// A sub-directory without page images is a nested sub-bucket, such as
// "Registered Non-Hong Kong Companies", and is descended into rather than
// mistaken for a document.
func listDocumentDirs(bucketDir string) ([]string, error) {
	var dirs []string
	if err := collectDocumentDirs(bucketDir, &dirs); err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

func collectDocumentDirs(dir string, out *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read bucket directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		// A directory with neither page images nor sub-directories is still
		// a document, so an emptied-out conversion surfaces as an error row.
		if hasPageImages(sub) || !hasSubDirs(sub) {
			*out = append(*out, sub)
			continue
		}
		if err := collectDocumentDirs(sub, out); err != nil {
			return err
		}
	}
	return nil
}

func hasSubDirs(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			return true
		}
	}
	return false
}

func recErr(rec *document.ExtractionRecord) error {
	if rec == nil || rec.Err == "" {
		return nil
	}
	return fmt.Errorf("%s", rec.Err)
}

func errOrNotDir(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("not a directory")
}
