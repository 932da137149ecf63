package export

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/regscan/regscan/internal/document"
)

// WriteSQLite writes the table to a sqlite database at path. All rows,
// successful and failed, land in a single records table; failures carry
// their error message in the error column and NULL field values.
func WriteSQLite(table *document.ResultTable, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open database %s: %w", path, err)
	}
	defer db.Close()

	if err := createRecordsTable(db, table.Columns); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSQL(table.Columns))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range table.Rows {
		if _, err := stmt.Exec(recordArgs(rec, table)...); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.Source, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createRecordsTable(db *sql.DB, columns []string) error {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS records (\n")
	b.WriteString("  source TEXT NOT NULL,\n")
	b.WriteString("  doc_type TEXT NOT NULL,\n")
	b.WriteString("  run_id TEXT NOT NULL,\n")
	for _, col := range columns {
		fmt.Fprintf(&b, "  %s TEXT,\n", quoteIdent(col))
	}
	b.WriteString("  error TEXT\n)")
	if _, err := db.Exec(b.String()); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func insertSQL(columns []string) string {
	names := []string{"source", "doc_type", "run_id"}
	for _, col := range columns {
		names = append(names, quoteIdent(col))
	}
	names = append(names, "error")
	marks := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	return fmt.Sprintf("INSERT INTO records (%s) VALUES (%s)", strings.Join(names, ", "), marks)
}

func recordArgs(rec *document.ExtractionRecord, table *document.ResultTable) []any {
	args := []any{rec.Source, table.Type, table.RunID}
	for _, col := range table.Columns {
		if rec.Failed() {
			args = append(args, nil)
			continue
		}
		args = append(args, rec.Fields[col].Clean)
	}
	if rec.Failed() {
		args = append(args, rec.Err)
	} else {
		args = append(args, nil)
	}
	return args
}

// quoteIdent wraps a field name for use as a column identifier. Layout field
// names are lower_snake and never contain quotes, the quoting guards against
// keyword collisions.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
