package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/regscan/regscan/internal/config"
	"github.com/regscan/regscan/internal/layout"
	"github.com/regscan/regscan/internal/ocr"
	"github.com/regscan/regscan/internal/ocr/tesseract"
	"github.com/regscan/regscan/internal/rasterize"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "regscan",
	Short: "Bulk field extraction from scanned company registry filings",
	Long: `Regscan converts directories of scanned registry PDFs into page images,
sorts them into per-type buckets, reads the known field regions of each
form with OCR and aggregates the cleaned values into a single table.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling...")
		cancel()
	}()
	return ctx, cancel
}

// loadConfig reads the working directory's configuration.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Warnings and errors always show,
// --verbose adds the per-document detail.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newEngine builds the process OCR engine from configuration.
func newEngine(cfg *config.Config) ocr.Engine {
	if cfg.OCR.TessdataPrefix != "" {
		os.Setenv("TESSDATA_PREFIX", cfg.OCR.TessdataPrefix)
	}
	return tesseract.New(cfg.OCR.Languages...)
}

func newRasterizer(cfg *config.Config, log *slog.Logger) rasterize.Rasterizer {
	return rasterize.NewPoppler(cfg.Rasterize.Binary, cfg.Rasterize.DPI, log)
}

func newLayouts() *layout.Registry {
	return layout.NewRegistry()
}
