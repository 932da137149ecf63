// Package ocr defines the engine abstraction the pipeline recognizes text
// through. The interface is deliberately small so the Tesseract-backed
// implementation can be swapped for a test double or a remote service without
// leaking provider concerns into callers.
package ocr

import "context"

// Input is a single image region submitted for recognition.
type Input struct {
	// Image is the encoded image payload (JPEG or PNG).
	Image []byte
	// Languages lists tesseract trained-data hints, e.g. "eng" or
	// "chi_sim". Empty means the engine default.
	Languages []string
	// DPI is the effective dots-per-inch of the image; zero means unknown.
	DPI int
	// Variables carries engine-specific knobs (page segmentation mode,
	// character whitelist) without hard-coding them into the API.
	Variables map[string]string
}

// Result is the recognition output for one input.
type Result struct {
	// Text is the raw recognized text, untrimmed.
	Text string
	// Confidence is the mean word confidence in [0,1]; zero when the engine
	// does not report it.
	Confidence float64
}

// Engine recognizes text in one image region per call. Implementations must
// be safe for concurrent use by independent documents; callers cap their
// worker count instead of relying on engine-internal locking.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}
