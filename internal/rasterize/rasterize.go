// Package rasterize converts source PDFs into per-document directories of
// page images. The actual rasterization is delegated to poppler's pdftoppm,
// treated as a black-box collaborator behind the Rasterizer interface.
package rasterize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/regscan/regscan/internal/document"
)

// Rasterizer converts one PDF into one image per page inside outDir, naming
// pages page_1.jpg, page_2.jpg, ... in page order. It returns the page count.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outDir string) (int, error)
}

// Poppler rasterizes through the pdftoppm binary.
type Poppler struct {
	// Binary is the pdftoppm executable; "pdftoppm" resolves via PATH.
	Binary string
	// DPI is the rasterization resolution. The field layouts are tuned at
	// 330 DPI.
	DPI int

	log *slog.Logger
}

// NewPoppler returns a pdftoppm-backed rasterizer.
func NewPoppler(binary string, dpi int, log *slog.Logger) *Poppler {
	if binary == "" {
		binary = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 330
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poppler{Binary: binary, DPI: dpi, log: log}
}

// Rasterize converts pdfPath into outDir. A failure of the underlying binary
// is reported as ErrConversion; it aborts this document only.
func (p *Poppler) Rasterize(ctx context.Context, pdfPath, outDir string) (int, error) {
	if !strings.EqualFold(filepath.Ext(pdfPath), ".pdf") {
		return 0, fmt.Errorf("%w: %s", document.ErrNotPDF, pdfPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, p.Binary, "-jpeg", "-r", strconv.Itoa(p.DPI), pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return 0, fmt.Errorf("%w: %s: %s", document.ErrConversion, pdfPath, firstLine(string(out)))
	}

	pages, err := renamePages(outDir)
	if err != nil {
		return 0, err
	}
	if pages == 0 {
		return 0, fmt.Errorf("%w: %s produced no pages", document.ErrConversion, pdfPath)
	}
	p.log.Debug("rasterize: converted", "pdf", pdfPath, "pages", pages)
	return pages, nil
}

// renamePages normalizes pdftoppm's zero-padded output (page-01.jpg) to the
// pipeline's page_N.jpg naming and returns the page count.
func renamePages(outDir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(outDir, "page-*.jpg"))
	if err != nil {
		return 0, err
	}
	sort.Strings(matches)
	count := 0
	for _, m := range matches {
		numPart := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "page-"), ".jpg")
		n, err := strconv.Atoi(numPart)
		if err != nil {
			continue
		}
		dst := filepath.Join(outDir, fmt.Sprintf("page_%d.jpg", n))
		if err := os.Rename(m, dst); err != nil {
			return 0, fmt.Errorf("rename page image: %w", err)
		}
		count++
	}
	return count, nil
}

// Convert rasterizes one PDF into root/<basename>/. Re-running conversion on
// an already-converted document is a no-op unless force is set, making bulk
// conversion restartable.
func Convert(ctx context.Context, r Rasterizer, pdfPath, root string, force bool) (outDir string, pages int, skipped bool, err error) {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	outDir = filepath.Join(root, base)

	if !force {
		if converted(outDir) {
			return outDir, 0, true, nil
		}
		// An existing directory without page images is not ours to clobber.
		if _, statErr := os.Stat(outDir); statErr == nil {
			return outDir, 0, false, fmt.Errorf("%w: %s", document.ErrOutputExists, outDir)
		}
	} else if err := os.RemoveAll(outDir); err != nil {
		return outDir, 0, false, fmt.Errorf("clear output directory: %w", err)
	}

	pages, err = r.Rasterize(ctx, pdfPath, outDir)
	if err != nil {
		// Leave no half-converted directory behind: a partial directory
		// would be skipped as complete on the next run.
		os.RemoveAll(outDir)
		return outDir, 0, false, err
	}
	return outDir, pages, false, nil
}

func converted(dir string) bool {
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

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
