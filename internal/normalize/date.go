package normalize

import (
	"strings"
	"time"
)

// dateLayouts lists the date renderings seen on registry forms, most common
// first. All are day-first.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2 January 2006",
	"02 January 2006",
}

// ParseDate parses a registry date string and returns the canonical
// DD/MM/YYYY rendering. Segmented date boxes are often recognized with
// spaces between the groups, so whitespace is retried as a separator.
func ParseDate(s string) (string, bool) {
	candidates := []string{s, strings.ReplaceAll(Collapse(s), " ", "/")}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.Format("02/01/2006"), true
			}
		}
	}
	return "", false
}

// cleanDate parses the date after digit-confusable correction. When the text
// cannot be parsed as a calendar date it is returned raw with the validity
// flag lowered, it never errors.
func cleanDate(s string) (string, bool) {
	if out, ok := ParseDate(s); ok {
		return out, true
	}
	// Retry after correcting confusable glyphs inside the digit groups.
	var b strings.Builder
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' || r == '.' || r == ' ' }) {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(Digits(f))
	}
	if out, ok := ParseDate(b.String()); ok {
		return out, true
	}
	return Collapse(s), false
}
