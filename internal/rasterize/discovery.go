package rasterize

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Finder discovers source PDFs in an input directory using glob patterns
// with ignore rules.
type Finder struct {
	include []glob.Glob
	ignore  []glob.Glob
}

// NewFinder compiles the include and ignore patterns. Patterns match file
// base names, e.g. "*.pdf" or "~$*".
func NewFinder(include, ignore []string) (*Finder, error) {
	f := &Finder{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile include pattern %q: %w", pattern, err)
		}
		f.include = append(f.include, g)
	}
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		f.ignore = append(f.ignore, g)
	}
	return f, nil
}

// FindPDFs returns matching files in dir, sorted, with duplicate scans
// dropped.
func (f *Finder) FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !f.matches(name) || f.ignored(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return DropDuplicateScans(paths), nil
}

func (f *Finder) matches(name string) bool {
	for _, g := range f.include {
		if g.Match(name) || g.Match(strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func (f *Finder) ignored(name string) bool {
	for _, g := range f.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

var trailingCounter = regexp.MustCompile(`\s+\(?(\d{1,3})\)?$`)

// DropDuplicateScans removes re-downloaded copies of the same filing:
// a file whose base name differs from another input only by a trailing copy
// counter ("ACME Limited 2.pdf" next to "ACME Limited.pdf") is skipped. A
// trailing number with no counterpart is kept; it may be a year or a form
// revision.
func DropDuplicateScans(paths []string) []string {
	bases := make(map[string]bool, len(paths))
	for _, p := range paths {
		bases[stem(p)] = true
	}
	var kept []string
	for _, p := range paths {
		s := stem(p)
		trimmed := strings.TrimSpace(trailingCounter.ReplaceAllString(s, ""))
		if trimmed != s && bases[trimmed] {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
