package rasterize

// Test Plan for Conversion:
// - Poppler.Rasterize rejects non-PDF inputs with ErrNotPDF
// - Convert names the output directory after the PDF base name
// - Convert skips documents that already have page images
// - Convert with force re-converts over existing output
// - Convert refuses to clobber an existing non-conversion directory
// - Convert removes the half-converted directory when rasterization fails
// - Finder matches include patterns and honors ignore patterns
// - DropDuplicateScans drops "Name 2.pdf" only when "Name.pdf" is present

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regscan/regscan/internal/document"
)

// fakeRasterizer writes a fixed number of page files, or fails.
type fakeRasterizer struct {
	pages int
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, pdfPath, outDir string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, err
	}
	for i := 1; i <= f.pages; i++ {
		name := filepath.Join(outDir, fmt.Sprintf("page_%d.jpg", i))
		if err := os.WriteFile(name, []byte("img"), 0644); err != nil {
			return 0, err
		}
	}
	return f.pages, nil
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
	return path
}

func TestPoppler_RejectsNonPDF(t *testing.T) {
	p := NewPoppler("pdftoppm", 330, nil)
	_, err := p.Rasterize(context.Background(), "/tmp/scan.txt", t.TempDir())
	assert.True(t, errors.Is(err, document.ErrNotPDF))
}

func TestConvert_OutputNamedAfterPDF(t *testing.T) {
	root := t.TempDir()
	pdf := writePDF(t, root, "ACME Limited.pdf")
	fake := &fakeRasterizer{pages: 3}

	outDir, pages, skipped, err := Convert(context.Background(), fake, pdf, root+"_converted", false)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 3, pages)
	assert.Equal(t, filepath.Join(root+"_converted", "ACME Limited"), outDir)
	assert.FileExists(t, filepath.Join(outDir, "page_1.jpg"))
}

func TestConvert_SkipsConverted(t *testing.T) {
	root := t.TempDir()
	pdf := writePDF(t, root, "ACME Limited.pdf")
	fake := &fakeRasterizer{pages: 2}
	converted := root + "_converted"

	_, _, _, err := Convert(context.Background(), fake, pdf, converted, false)
	require.NoError(t, err)

	_, _, skipped, err := Convert(context.Background(), fake, pdf, converted, false)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, 1, fake.calls)
}

func TestConvert_ForceReconverts(t *testing.T) {
	root := t.TempDir()
	pdf := writePDF(t, root, "ACME Limited.pdf")
	fake := &fakeRasterizer{pages: 2}
	converted := root + "_converted"

	_, _, _, err := Convert(context.Background(), fake, pdf, converted, false)
	require.NoError(t, err)

	_, _, skipped, err := Convert(context.Background(), fake, pdf, converted, true)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 2, fake.calls)
}

func TestConvert_RefusesForeignDirectory(t *testing.T) {
	root := t.TempDir()
	pdf := writePDF(t, root, "ACME Limited.pdf")
	converted := root + "_converted"
	// An existing directory with no page images is not conversion output.
	foreign := filepath.Join(converted, "ACME Limited")
	require.NoError(t, os.MkdirAll(foreign, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(foreign, "keep.txt"), []byte("x"), 0644))

	fake := &fakeRasterizer{pages: 1}
	_, _, _, err := Convert(context.Background(), fake, pdf, converted, false)
	assert.True(t, errors.Is(err, document.ErrOutputExists))
	assert.FileExists(t, filepath.Join(foreign, "keep.txt"))

	_, _, _, err = Convert(context.Background(), fake, pdf, converted, true)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(foreign, "keep.txt"))
}

func TestConvert_FailureLeavesNoDirectory(t *testing.T) {
	root := t.TempDir()
	pdf := writePDF(t, root, "ACME Limited.pdf")
	fake := &fakeRasterizer{err: fmt.Errorf("%w: corrupt file", document.ErrConversion)}

	outDir, _, _, err := Convert(context.Background(), fake, pdf, root+"_converted", false)
	assert.True(t, errors.Is(err, document.ErrConversion))
	assert.NoDirExists(t, outDir)
}

func TestFinder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "B.PDF", "~$a.pdf", "notes.txt", ".hidden.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755))

	f, err := NewFinder([]string{"*.pdf"}, []string{"~$*", ".*"})
	require.NoError(t, err)

	paths, err := f.FindPDFs(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"B.PDF", "a.pdf"}, names)
}

func TestDropDuplicateScans(t *testing.T) {
	paths := []string{
		"/in/ACME Limited.pdf",
		"/in/ACME Limited 2.pdf",
		"/in/ACME Limited (3).pdf",
		"/in/Fortune 500.pdf",
		"/in/Other Corp 2.pdf",
	}
	kept := DropDuplicateScans(paths)
	assert.Equal(t, []string{
		"/in/ACME Limited.pdf",
		"/in/Fortune 500.pdf",
		"/in/Other Corp 2.pdf",
	}, kept)
}
