// Package config holds the pipeline's explicit configuration. A Config is
// constructed once and passed into each component; nothing reads ambient
// global state, so tests can substitute fake engines and rasterizers freely.
package config

import (
	"runtime"

	"github.com/regscan/regscan/internal/layout"
)

// Config is the complete regscan configuration, loadable from
// .regscan/config.yml with REGSCAN_* environment overrides.
type Config struct {
	Rasterize RasterizeConfig `yaml:"rasterize" mapstructure:"rasterize"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
}

// RasterizeConfig configures PDF-to-image conversion.
type RasterizeConfig struct {
	Binary string `yaml:"binary" mapstructure:"binary"` // pdftoppm executable
	DPI    int    `yaml:"dpi" mapstructure:"dpi"`       // rasterization resolution
}

// OCRConfig configures the recognition engine.
type OCRConfig struct {
	Languages      []string `yaml:"languages" mapstructure:"languages"`             // default language hints
	TessdataPrefix string   `yaml:"tessdata_prefix" mapstructure:"tessdata_prefix"` // TESSDATA_PREFIX override, empty keeps the environment
}

// ClassifyConfig configures document type classification.
type ClassifyConfig struct {
	Threshold float64  `yaml:"threshold" mapstructure:"threshold"` // minimum fuzzy title similarity
	Titles    []string `yaml:"titles" mapstructure:"titles"`       // known form titles
}

// BatchConfig configures parallel batch processing.
type BatchConfig struct {
	// Workers caps the worker pool in parallel mode. Zero picks a default
	// from the CPU count. The cap also protects the OCR engine from
	// unbounded concurrent native calls.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ExportConfig configures result output.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // xlsx, csv or sqlite
}

// PathsConfig defines which input files are converted.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // base-name glob patterns
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`
}

// Default returns the configuration tuned against the registry's scans.
func Default() *Config {
	return &Config{
		Rasterize: RasterizeConfig{
			Binary: "pdftoppm",
			DPI:    330,
		},
		OCR: OCRConfig{
			Languages: []string{"eng"},
		},
		Classify: ClassifyConfig{
			Threshold: 0.8,
			Titles:    layout.KnownTitles(),
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		Export: ExportConfig{
			Format: "xlsx",
		},
		Paths: PathsConfig{
			Include: []string{"*.pdf"},
			Ignore:  []string{"~$*", ".*"},
		},
	}
}

// WorkerCount resolves the effective pool size for parallel mode.
func (c *Config) WorkerCount() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}
