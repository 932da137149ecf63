package ocr

import "context"

// StubEngine is a scripted engine for tests and dry runs. Recognize returns
// whatever Fn produces; a nil Fn yields empty results.
type StubEngine struct {
	Fn func(ctx context.Context, in Input) (Result, error)
}

func (s *StubEngine) Name() string { return "stub" }

func (s *StubEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	if s.Fn == nil {
		return Result{}, nil
	}
	return s.Fn(ctx, in)
}
