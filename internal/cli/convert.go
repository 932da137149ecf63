package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/regscan/regscan/internal/batch"
	"github.com/regscan/regscan/internal/watch"
)

var (
	convertParallel bool
	convertForce    bool
	convertWatch    bool
	convertQuiet    bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <dir>",
	Short: "Rasterize scanned PDFs and sort them into type buckets",
	Long: `Convert rasterizes every PDF in a directory into per-page images under
<dir>_converted, reads each first page to recognize the form title, and
moves the converted documents into per-type buckets under
<dir>_categorized. Documents whose title cannot be matched land in the
Unclassified bucket.

Conversion is idempotent: documents that already have a complete output
directory are skipped unless --force is given.

Examples:
  # Convert and sort a directory of scans
  regscan convert ./scans

  # Re-convert everything with one worker per core
  regscan convert ./scans --force --parallel

  # Keep watching the directory for new scans
  regscan convert ./scans --watch
`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVarP(&convertParallel, "parallel", "p", false, "Convert documents concurrently")
	convertCmd.Flags().BoolVarP(&convertForce, "force", "f", false, "Re-convert documents with existing output")
	convertCmd.Flags().BoolVarP(&convertWatch, "watch", "w", false, "Keep watching the directory for new PDFs")
	convertCmd.Flags().BoolVarP(&convertQuiet, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	engine := newEngine(cfg)
	runner := batch.NewRunner(cfg, engine, newRasterizer(cfg, log), newLayouts(), log)

	dir := args[0]
	opts := batch.ConvertOptions{
		Parallel: convertParallel,
		Force:    convertForce,
		Progress: NewCLIProgress(convertQuiet),
	}

	if err := convertOnce(ctx, runner, dir, opts); err != nil {
		return err
	}
	if !convertWatch {
		return nil
	}

	w, err := watch.New(dir, 0, log)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer w.Close()

	if !convertQuiet {
		fmt.Println("Watching for new PDFs... (Ctrl+C to stop)")
	}
	w.Run(ctx, func(files []string) {
		if !convertQuiet {
			fmt.Printf("Detected %d changed file(s) at %s\n", len(files), time.Now().Format("15:04:05"))
		}
		// Re-run over the whole directory; conversion skips what is already
		// done, so only the new files cost anything.
		if err := convertOnce(ctx, runner, dir, opts); err != nil && ctx.Err() == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "conversion failed: %v\n", err)
		}
	})
	return nil
}

func convertOnce(ctx context.Context, runner *batch.Runner, dir string, opts batch.ConvertOptions) error {
	summary, err := runner.ConvertAndClassify(ctx, dir, opts)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("conversion cancelled")
		}
		return err
	}
	if !convertQuiet {
		printConvertSummary(summary)
	}
	return nil
}

func printConvertSummary(s *batch.ConvertSummary) {
	fmt.Printf("✓ Converted %d document(s), skipped %d, failed %d\n",
		s.Converted, s.Skipped, len(s.Failed))

	labels := make([]string, 0, len(s.Classified))
	for label := range s.Classified {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("  %-50s %d\n", label, s.Classified[label])
	}
	for _, f := range s.Failed {
		fmt.Printf("  failed: %s: %s\n", f.Name, f.Err)
	}
}
