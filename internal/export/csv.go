package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/regscan/regscan/internal/document"
)

// WriteCSV writes the table's successful rows to a csv file at path and, when
// any document failed, a sibling <path minus ext>_unsuccessful.csv listing
// the failures.
func WriteCSV(table *document.ResultTable, path string) error {
	if err := writeCSVFile(path, header(table.Columns), func(w *csv.Writer) error {
		for _, rec := range table.Rows {
			if rec.Failed() {
				continue
			}
			if err := w.Write(recordRow(rec, table.Columns)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	failures := table.Failures()
	if len(failures) == 0 {
		return nil
	}
	return writeCSVFile(failurePath(path), []string{"source", "error"}, func(w *csv.Writer) error {
		for _, rec := range failures {
			if err := w.Write([]string{rec.Source, rec.Err}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSVFile(path string, head []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(head); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := body(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func failurePath(path string) string {
	ext := ""
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			base, ext = path[:i], path[i:]
			break
		}
		if os.IsPathSeparator(path[i]) {
			break
		}
	}
	return base + "_unsuccessful" + ext
}
