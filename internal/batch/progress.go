package batch

// Progress receives batch lifecycle callbacks. The CLI drives progress bars
// with it; tests and library callers can use NopProgress.
type Progress interface {
	// OnConvertStart reports the number of PDFs about to be converted.
	OnConvertStart(total int)
	// OnConverted reports one finished conversion. skipped is set for
	// documents that were already converted; err for failed ones.
	OnConverted(name string, pages int, skipped bool, err error)
	// OnClassifyStart reports the number of documents about to be routed.
	OnClassifyStart(total int)
	// OnClassified reports one routing decision.
	OnClassified(name, label string, err error)
	// OnExtractStart reports the number of documents about to be extracted.
	OnExtractStart(total int)
	// OnExtracted reports one finished document extraction.
	OnExtracted(name string, err error)
}

// NopProgress discards all callbacks.
type NopProgress struct{}

func (NopProgress) OnConvertStart(int)                      {}
func (NopProgress) OnConverted(string, int, bool, error)    {}
func (NopProgress) OnClassifyStart(int)                     {}
func (NopProgress) OnClassified(string, string, error)      {}
func (NopProgress) OnExtractStart(int)                      {}
func (NopProgress) OnExtracted(string, error)               {}
