package ocr

import "strconv"

// InputOption mutates an Input under construction.
type InputOption func(*Input)

// NewInput builds an Input for an encoded image with the given options.
func NewInput(image []byte, opts ...InputOption) Input {
	in := Input{Image: image}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// WithLanguages sets the language hints.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI sets the effective image DPI.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithPSM sets the Tesseract page segmentation mode.
func WithPSM(mode int) InputOption {
	return setVariable("tessedit_pageseg_mode", strconv.Itoa(mode))
}

// WithWhitelist restricts recognition to the given characters.
func WithWhitelist(chars string) InputOption {
	return setVariable("tessedit_char_whitelist", chars)
}

func setVariable(key, value string) InputOption {
	return func(in *Input) {
		if in.Variables == nil {
			in.Variables = make(map[string]string)
		}
		in.Variables[key] = value
	}
}
