package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgress implements batch progress reporting with progress bars.
type CLIProgress struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewCLIProgress creates a progress reporter; quiet disables all output.
func NewCLIProgress(quiet bool) *CLIProgress {
	return &CLIProgress{quiet: quiet}
}

func (c *CLIProgress) newBar(description string, total int) {
	if c.quiet {
		return
	}
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("docs/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgress) OnConvertStart(total int) {
	c.newBar("Converting PDFs", total)
}

func (c *CLIProgress) OnConverted(name string, pages int, skipped bool, err error) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgress) OnClassifyStart(total int) {}

func (c *CLIProgress) OnClassified(name, label string, err error) {}

func (c *CLIProgress) OnExtractStart(total int) {
	c.newBar("Extracting fields", total)
}

func (c *CLIProgress) OnExtracted(name string, err error) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}
