package config

// Test Plan for Configuration:
// - Load without a config file returns the defaults
// - Load merges .regscan/config.yml over the defaults
// - REGSCAN_* environment variables override the file
// - Load rejects invalid settings
// - Validate reports every violation, not just the first
// - WorkerCount resolves zero to a CPU-derived default

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, rootDir, body string) {
	t.Helper()
	dir := filepath.Join(rootDir, ".regscan")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "pdftoppm", cfg.Rasterize.Binary)
	assert.Equal(t, 330, cfg.Rasterize.DPI)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 0.8, cfg.Classify.Threshold)
	assert.NotEmpty(t, cfg.Classify.Titles)
	assert.Equal(t, "xlsx", cfg.Export.Format)
	assert.Equal(t, []string{"*.pdf"}, cfg.Paths.Include)
}

func TestLoad_ConfigFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
rasterize:
  dpi: 300
batch:
  workers: 2
export:
  format: csv
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Rasterize.DPI)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "csv", cfg.Export.Format)
	// Untouched settings keep their defaults.
	assert.Equal(t, "pdftoppm", cfg.Rasterize.Binary)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "export:\n  format: csv\n")
	t.Setenv("REGSCAN_EXPORT_FORMAT", "sqlite")
	t.Setenv("REGSCAN_BATCH_WORKERS", "3")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Export.Format)
	assert.Equal(t, 3, cfg.Batch.Workers)
}

func TestLoad_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "export:\n  format: pdf\n")

	_, err := Load(root)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "export.format")
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := Default()
	cfg.Rasterize.DPI = 0
	cfg.Classify.Threshold = 1.5
	cfg.Export.Format = "pdf"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterize.dpi")
	assert.Contains(t, err.Error(), "classify.threshold")
	assert.Contains(t, err.Error(), "export.format")
}

func TestWorkerCount(t *testing.T) {
	cfg := Default()
	cfg.Batch.Workers = 5
	assert.Equal(t, 5, cfg.WorkerCount())

	cfg.Batch.Workers = 0
	n := cfg.WorkerCount()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 8)
}
