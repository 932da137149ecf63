// Package export writes an aggregated result table to disk as xlsx, csv or
// sqlite, and renders a console preview. Failed documents are kept out of
// the data rows and reported separately so partial batches stay usable.
package export

import (
	"fmt"
	"strings"
)

// Format identifies an output encoding.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format string from the CLI or config file.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected xlsx, csv or sqlite)", s)
	}
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatSQLite:
		return ".db"
	default:
		return "." + string(f)
	}
}

// header builds the column row: source first, then the layout fields.
func header(columns []string) []string {
	row := make([]string, 0, len(columns)+1)
	row = append(row, "source")
	return append(row, columns...)
}

// sanitizeSheetName clamps a document type label to the 31 characters a
// worksheet name allows and strips the characters the format forbids.
func sanitizeSheetName(label string) string {
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name := strings.TrimSpace(replacer.Replace(label))
	if name == "" {
		name = "Results"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
