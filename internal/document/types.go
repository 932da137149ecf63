package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// FieldKind describes the shape of the value a field region is expected to
// contain. Normalization rules are selected per kind.
type FieldKind string

const (
	KindText   FieldKind = "text"   // free text, possibly multi-line
	KindName   FieldKind = "name"   // personal or company name, Latin letters
	KindDate   FieldKind = "date"   // registry date, day/month/year
	KindNumber FieldKind = "number" // digits only (registration numbers etc.)
	KindAmount FieldKind = "amount" // monetary or share amount
	KindEmail  FieldKind = "email"  // email address
	KindPhone  FieldKind = "phone"  // Hong Kong telephone or fax number
	KindID     FieldKind = "id"     // HKID-style identifier
	KindTable  FieldKind = "table"  // column cut from a ruled table, multi-entry
)

// Box is a pixel-coordinate bounding rectangle with the origin at the top
// left of the page image. Coordinates are given at the layout's reference
// page size and scaled to the actual image at extraction time.
type Box struct {
	X, Y, W, H int
}

// Empty reports whether the box has non-positive dimensions.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// FieldRegion names one data field and the fixed area of a page known to
// contain its text.
type FieldRegion struct {
	Name string
	// Page is the 1-based page number the region is found on.
	Page int
	Box  Box
	Kind FieldKind
	// Languages lists tesseract language hints for the region. Empty means
	// the engine default (Latin) languages.
	Languages []string
	// PSM overrides the page segmentation mode for the region; zero keeps
	// the engine default.
	PSM int
	// Preprocess flags tuning recognition for the region.
	Scale     bool // upscale small boxes before recognition
	Blur      bool // soften scan noise
	Threshold bool // binarize before recognition
}

// Layout is a document type's ordered list of field regions.
type Layout struct {
	// Label is the document type name as printed on the form title.
	Label string
	// Pages is the number of pages the form is expected to have at minimum.
	Pages int
	// RefWidth and RefHeight give the page pixel size the region boxes were
	// measured at. Images of a different size are handled by scaling.
	RefWidth, RefHeight int
	Regions             []FieldRegion
}

// FieldNames returns the region names in layout order.
func (l *Layout) FieldNames() []string {
	names := make([]string, len(l.Regions))
	for i, r := range l.Regions {
		names[i] = r.Name
	}
	return names
}

var pageNumRe = regexp.MustCompile(`(\d+)`)

// SourceDocument is one scanned filing: the path to its page-image directory
// plus the ordered page image paths. It is transient; it exists only while a
// single document is being classified or extracted.
type SourceDocument struct {
	// Path is the document's image directory.
	Path string
	// Name is the directory base name, used as the document identity in
	// result tables.
	Name string
	// Pages holds the page image paths in page order.
	Pages []string
}

// LoadSourceDocument reads a converted document directory and orders its
// page images by the number embedded in the file name (page_1.jpg, ...).
func LoadSourceDocument(dir string) (*SourceDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read document directory: %w", err)
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
			pages = append(pages, filepath.Join(dir, e.Name()))
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPages)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pageNumber(pages[i]) < pageNumber(pages[j])
	})
	return &SourceDocument{
		Path:  dir,
		Name:  filepath.Base(dir),
		Pages: pages,
	}, nil
}

// Page returns the path of the 1-based page number, or "" when the document
// has fewer pages.
func (d *SourceDocument) Page(n int) string {
	if n < 1 || n > len(d.Pages) {
		return ""
	}
	return d.Pages[n-1]
}

func pageNumber(path string) int {
	m := pageNumRe.FindString(filepath.Base(path))
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// FieldValue is the soft-fail result of normalizing one recognized field.
// Raw preserves the OCR output; Clean is the best-effort typed value; Valid
// reports whether Clean conforms to the field kind. Malformed input never
// raises an error, it is returned with Valid set to false.
type FieldValue struct {
	Raw   string
	Clean string
	Valid bool
}

// ExtractionRecord maps every field name of one document type to its cleaned
// value for a single source document. The key set is fixed by the layout:
// a field that could not be read is present with a blank value.
type ExtractionRecord struct {
	// Source is the document directory name the record was extracted from.
	Source string
	Fields map[string]FieldValue
	// Err is non-empty when the document as a whole could not be processed;
	// such records become flagged error rows in the result table.
	Err string
}

// NewRecord returns a record for src with every layout field present and
// blank.
func NewRecord(src string, layout *Layout) *ExtractionRecord {
	rec := &ExtractionRecord{
		Source: src,
		Fields: make(map[string]FieldValue, len(layout.Regions)),
	}
	for _, r := range layout.Regions {
		rec.Fields[r.Name] = FieldValue{}
	}
	return rec
}

// ErrorRecord returns a record representing a document that failed entirely.
func ErrorRecord(src string, layout *Layout, err error) *ExtractionRecord {
	rec := NewRecord(src, layout)
	rec.Err = err.Error()
	return rec
}

// Failed reports whether the record is an error row.
func (r *ExtractionRecord) Failed() bool { return r.Err != "" }

// InvalidFields returns the names of fields whose values did not conform to
// their kind, in layout-independent sorted order.
func (r *ExtractionRecord) InvalidFields() []string {
	var names []string
	for name, v := range r.Fields {
		if v.Raw != "" && !v.Valid {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ResultTable is the aggregated output for one bucket directory: one row per
// source document, one column per layout field.
type ResultTable struct {
	// Type is the document type label the table was extracted for.
	Type string
	// RunID identifies the batch run that produced the table.
	RunID string
	// Columns holds the field names in layout order.
	Columns []string
	Rows    []*ExtractionRecord
}

// NewResultTable returns an empty table with columns taken from the layout.
func NewResultTable(layout *Layout, runID string) *ResultTable {
	return &ResultTable{
		Type:    layout.Label,
		RunID:   runID,
		Columns: layout.FieldNames(),
	}
}

// Append adds a row to the table.
func (t *ResultTable) Append(rec *ExtractionRecord) { t.Rows = append(t.Rows, rec) }

// SortBySource orders rows by source name so sequential and parallel runs
// produce identical output.
func (t *ResultTable) SortBySource() {
	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Source < t.Rows[j].Source })
}

// Failures returns the error rows.
func (t *ResultTable) Failures() []*ExtractionRecord {
	var failed []*ExtractionRecord
	for _, r := range t.Rows {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}
