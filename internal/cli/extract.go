package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regscan/regscan/internal/batch"
	"github.com/regscan/regscan/internal/document"
	"github.com/regscan/regscan/internal/export"
)

var (
	extractType     string
	extractParallel bool
	extractOut      string
	extractFormat   string
	extractPreview  bool
	extractQuiet    bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <bucket-dir>",
	Short: "Read the field regions of every document in a bucket",
	Long: `Extract runs OCR over the known field regions of every converted
document in a categorized bucket directory and aggregates the cleaned
values into one table, one row per document. Documents that cannot be
read at all are kept as flagged failure rows.

The bucket's document type selects the field layout; list the known
types with "regscan types".

Examples:
  # Extract a bucket of annual returns to results.xlsx
  regscan extract "./scans_categorized/Annual Return" --type "Annual Return"

  # Write a sqlite database instead, with a console preview
  regscan extract "./scans_categorized/Annual Return" --type "Annual Return" \
    --format sqlite --out returns.db --preview
`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractType, "type", "t", "", "Document type of the bucket (required)")
	extractCmd.Flags().BoolVarP(&extractParallel, "parallel", "p", false, "Extract documents concurrently")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output path (default results.<ext> next to the bucket)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "Output format: xlsx, csv or sqlite (default from config)")
	extractCmd.Flags().BoolVar(&extractPreview, "preview", false, "Print the first rows of the table to the console")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "Disable progress bars and non-error output")
	extractCmd.MarkFlagRequired("type")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format := extractFormat
	if format == "" {
		format = cfg.Export.Format
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	log := newLogger()
	runner := batch.NewRunner(cfg, newEngine(cfg), newRasterizer(cfg, log), newLayouts(), log)

	table, err := runner.ProcessDirectory(ctx, args[0], extractType, batch.ExtractOptions{
		Parallel: extractParallel,
		Progress: NewCLIProgress(extractQuiet),
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("extraction cancelled")
		}
		return err
	}

	out := extractOut
	if out == "" {
		out = filepath.Join(filepath.Dir(strings.TrimRight(args[0], string(os.PathSeparator))), "results"+f.Ext())
	}
	if err := writeTable(table, f, out); err != nil {
		return err
	}

	if extractPreview {
		export.Preview(table, cmd.OutOrStdout())
	}
	if !extractQuiet {
		fmt.Printf("✓ Extracted %d document(s) (%d failed) to %s\n",
			len(table.Rows), len(table.Failures()), out)
	}
	return nil
}

func writeTable(table *document.ResultTable, f export.Format, out string) error {
	switch f {
	case export.FormatCSV:
		return export.WriteCSV(table, out)
	case export.FormatSQLite:
		return export.WriteSQLite(table, out)
	default:
		return export.WriteXLSX(table, out)
	}
}
