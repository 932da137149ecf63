package export

// Test Plan for Export:
// - ParseFormat accepts xlsx/csv/sqlite in any case and rejects the rest
// - WriteCSV round-trips rows and writes a sibling failure file
// - WriteXLSX puts data on a type-named sheet and failures on Unsuccessful
// - WriteSQLite stores all rows with error text on failures
// - Preview renders sources and values to the writer
// - sanitizeSheetName clamps and strips forbidden characters

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/regscan/regscan/internal/document"
)

func testTable() *document.ResultTable {
	lay := &document.Layout{
		Label: "Annual Return",
		Regions: []document.FieldRegion{
			{Name: "company_name", Kind: document.KindName},
			{Name: "company_number", Kind: document.KindNumber},
		},
	}
	table := document.NewResultTable(lay, "run-1")

	ok := document.NewRecord("doc-a", lay)
	ok.Fields["company_name"] = document.FieldValue{Raw: "ACME", Clean: "ACME", Valid: true}
	ok.Fields["company_number"] = document.FieldValue{Raw: "123", Clean: "123", Valid: true}
	table.Append(ok)
	table.Append(document.ErrorRecord("doc-b", lay, fmt.Errorf("no pages")))
	return table
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"xlsx": FormatXLSX, "CSV": FormatCSV, " sqlite ": FormatSQLite,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, "format %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFormatExt(t *testing.T) {
	assert.Equal(t, ".xlsx", FormatXLSX.Ext())
	assert.Equal(t, ".csv", FormatCSV.Ext())
	assert.Equal(t, ".db", FormatSQLite.Ext())
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteCSV(testTable(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"source", "company_name", "company_number"}, rows[0])
	assert.Equal(t, []string{"doc-a", "ACME", "123"}, rows[1])

	// Failures land in the sibling file.
	ff, err := os.Open(filepath.Join(filepath.Dir(path), "results_unsuccessful.csv"))
	require.NoError(t, err)
	defer ff.Close()
	failRows, err := csv.NewReader(ff).ReadAll()
	require.NoError(t, err)
	require.Len(t, failRows, 2)
	assert.Equal(t, []string{"doc-b", "no pages"}, failRows[1])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(testTable(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Annual Return")
	assert.Contains(t, f.GetSheetList(), "Unsuccessful")

	name, err := f.GetCellValue("Annual Return", "B2")
	require.NoError(t, err)
	assert.Equal(t, "ACME", name)

	src, err := f.GetCellValue("Unsuccessful", "A2")
	require.NoError(t, err)
	assert.Equal(t, "doc-b", src)
}

func TestWriteXLSX_NoFailureSheetWhenClean(t *testing.T) {
	lay := &document.Layout{Label: "Annual Return", Regions: []document.FieldRegion{{Name: "company_name"}}}
	table := document.NewResultTable(lay, "run-1")
	table.Append(document.NewRecord("doc-a", lay))

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(table, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), "Unsuccessful")
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	require.NoError(t, WriteSQLite(testTable(), path))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count))
	assert.Equal(t, 2, count)

	var name string
	require.NoError(t, db.QueryRow(
		`SELECT company_name FROM records WHERE source = 'doc-a'`).Scan(&name))
	assert.Equal(t, "ACME", name)

	var errText string
	require.NoError(t, db.QueryRow(
		`SELECT error FROM records WHERE source = 'doc-b'`).Scan(&errText))
	assert.Equal(t, "no pages", errText)
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	Preview(testTable(), &buf)

	out := buf.String()
	assert.Contains(t, out, "doc-a")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "doc-b")
	assert.Contains(t, out, "FAILED")
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Notice of Change  Director", sanitizeSheetName("Notice of Change: Director"))
	assert.Equal(t, "Results", sanitizeSheetName(""))
	assert.Len(t, sanitizeSheetName("Notice of Change in Particulars of Company Secretary"), 31)
}
