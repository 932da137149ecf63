package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/regscan/regscan/internal/document"
)

// WriteXLSX writes the table to an xlsx workbook at path. Successful rows go
// on a sheet named after the document type; failed documents go on a
// separate "Unsuccessful" sheet with their error message.
func WriteXLSX(table *document.ResultTable, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	dataSheet := sanitizeSheetName(table.Type)
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("rename data sheet: %w", err)
	}

	if err := writeSheetRow(f, dataSheet, 1, header(table.Columns)); err != nil {
		return err
	}
	row := 2
	for _, rec := range table.Rows {
		if rec.Failed() {
			continue
		}
		if err := writeSheetRow(f, dataSheet, row, recordRow(rec, table.Columns)); err != nil {
			return err
		}
		row++
	}

	failures := table.Failures()
	if len(failures) > 0 {
		const failSheet = "Unsuccessful"
		if _, err := f.NewSheet(failSheet); err != nil {
			return fmt.Errorf("create failure sheet: %w", err)
		}
		if err := writeSheetRow(f, failSheet, 1, []string{"source", "error"}); err != nil {
			return err
		}
		for i, rec := range failures {
			if err := writeSheetRow(f, failSheet, i+2, []string{rec.Source, rec.Err}); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d on %s: %w", row, sheet, err)
	}
	return nil
}

// recordRow renders one record in column order, source first.
func recordRow(rec *document.ExtractionRecord, columns []string) []string {
	row := make([]string, 0, len(columns)+1)
	row = append(row, rec.Source)
	for _, col := range columns {
		row = append(row, rec.Fields[col].Clean)
	}
	return row
}
