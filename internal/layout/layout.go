// Package layout holds the per-type field region tables. Document types
// differ only in data (which page and which pixel box each field lives in),
// so the association is a lookup table rather than per-type code.
package layout

import (
	"fmt"
	"sort"

	"github.com/regscan/regscan/internal/document"
)

// Registry maps document type labels to their layout descriptors.
type Registry struct {
	layouts map[string]*document.Layout
}

// NewRegistry returns a registry pre-populated with the built-in layouts.
func NewRegistry() *Registry {
	r := &Registry{layouts: make(map[string]*document.Layout)}
	r.Register(AnnualReturn())
	return r
}

// Register adds or replaces a layout.
func (r *Registry) Register(l *document.Layout) {
	r.layouts[l.Label] = l
}

// Lookup returns the layout for a type label.
func (r *Registry) Lookup(label string) (*document.Layout, error) {
	l, ok := r.layouts[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownType, label)
	}
	return l, nil
}

// Types returns the registered type labels sorted alphabetically.
func (r *Registry) Types() []string {
	labels := make([]string, 0, len(r.layouts))
	for label := range r.layouts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// KnownTitles lists every form title the classifier should recognize. Types
// without a registered extraction layout are still classified and bucketed;
// they just cannot be extracted yet.
func KnownTitles() []string {
	return []string{
		"Annual Return",
		"Incorporation Form",
		"Notice of Change of Director",
		"Notice of Change of Company Secretary",
		"Notice of Alteration of Share Capital",
		"Notice of Change in Particulars of Company Secretary",
		"Notice of Change of Address",
		"Notice of Resignation",
		"Return of Allotment",
	}
}
