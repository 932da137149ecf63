package config

import (
	"errors"
	"fmt"
)

var exportFormats = map[string]bool{
	"xlsx":   true,
	"csv":    true,
	"sqlite": true,
}

// Validate checks the configuration and returns every violation found,
// joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Rasterize.DPI <= 0 {
		errs = append(errs, fmt.Errorf("rasterize.dpi must be positive, got %d", c.Rasterize.DPI))
	}
	if c.Rasterize.Binary == "" {
		errs = append(errs, errors.New("rasterize.binary must not be empty"))
	}
	if c.Classify.Threshold <= 0 || c.Classify.Threshold > 1 {
		errs = append(errs, fmt.Errorf("classify.threshold must be in (0,1], got %g", c.Classify.Threshold))
	}
	if len(c.Classify.Titles) == 0 {
		errs = append(errs, errors.New("classify.titles must not be empty"))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers))
	}
	if !exportFormats[c.Export.Format] {
		errs = append(errs, fmt.Errorf("export.format must be xlsx, csv or sqlite, got %q", c.Export.Format))
	}
	if len(c.Paths.Include) == 0 {
		errs = append(errs, errors.New("paths.include must not be empty"))
	}

	return errors.Join(errs...)
}
