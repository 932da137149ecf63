// Package normalize maps raw OCR text into clean typed field values. Every
// function here fails soft: malformed input comes back as a best-effort value
// with its validity flag lowered, never as an error.
package normalize

import (
	"regexp"
	"strings"

	"github.com/regscan/regscan/internal/document"
)

// Placeholder strings the registry forms use for empty fields. They are
// treated as legitimately blank, not as recognition noise.
var nilMarkers = map[string]bool{
	"(nil)": true,
	"nil":   true,
	"n/a":   true,
	"none":  true,
	"-":     true,
}

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	nonLatinRe  = regexp.MustCompile(`[^a-zA-Z0-9,\-.\s()&'/@]`)
	nonAlphaRe  = regexp.MustCompile(`[^A-Za-z\s]`)
	nonDigitRe  = regexp.MustCompile(`[^0-9]`)
	nonUpNumRe  = regexp.MustCompile(`[^A-Z0-9]`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.\w{2,}$`)
	tableSplit  = regexp.MustCompile(`\s{2,}|\n+`)
	oneConfuse  = regexp.MustCompile(`[\[\]Iil!|]`)
	zeroConfuse = regexp.MustCompile(`[oO]`)
	fiveConfuse = regexp.MustCompile(`[sS]`)
)

// Collapse trims the string and folds runs of whitespace, including
// newlines, into single spaces.
func Collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Digits corrects glyphs tesseract commonly confuses with digits
// (I, l, 1-bars read as 1; o/O as 0; s/S as 5) and strips everything that is
// not a digit. The confusable table is empirically tuned against the
// registry's forms.
func Digits(s string) string {
	s = oneConfuse.ReplaceAllString(s, "1")
	s = zeroConfuse.ReplaceAllString(s, "0")
	s = fiveConfuse.ReplaceAllString(s, "5")
	return nonDigitRe.ReplaceAllString(s, "")
}

// StripNonLatin removes CJK and other non-Latin glyphs. The bilingual form
// fields repeat values in Chinese; only the Latin rendering is kept.
func StripNonLatin(s string) string {
	return nonLatinRe.ReplaceAllString(s, "")
}

// looksEmpty reports whether a string is recognition debris: every
// whitespace-separated token shorter than three characters.
func looksEmpty(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return true
	}
	for _, tok := range tokens {
		if len(tok) >= 3 {
			return false
		}
	}
	return true
}

// Field normalizes raw OCR output according to the expected field kind and
// returns the value together with its validity flag.
func Field(raw string, kind document.FieldKind) document.FieldValue {
	v := document.FieldValue{Raw: raw}
	collapsed := Collapse(raw)
	if collapsed == "" {
		return v
	}
	if nilMarkers[strings.ToLower(collapsed)] {
		v.Valid = true
		return v
	}

	switch kind {
	case document.KindName:
		v.Clean, v.Valid = cleanName(collapsed)
	case document.KindText:
		v.Clean, v.Valid = cleanText(collapsed)
	case document.KindNumber:
		v.Clean, v.Valid = cleanNumber(collapsed)
	case document.KindAmount:
		v.Clean, v.Valid = cleanAmount(collapsed)
	case document.KindDate:
		v.Clean, v.Valid = cleanDate(collapsed)
	case document.KindPhone:
		v.Clean, v.Valid = cleanPhone(collapsed)
	case document.KindEmail:
		v.Clean, v.Valid = cleanEmail(collapsed)
	case document.KindID:
		v.Clean, v.Valid = cleanHKID(collapsed)
	case document.KindTable:
		v.Clean, v.Valid = cleanTable(raw)
	default:
		v.Clean, v.Valid = cleanText(collapsed)
	}
	if v.Clean == "" && v.Valid {
		// A cleaner emptied the value without declaring it valid noise.
		v.Valid = false
	}
	return v
}

func cleanName(s string) (string, bool) {
	cleaned := Collapse(nonAlphaRe.ReplaceAllString(s, ""))
	if looksEmpty(cleaned) {
		return "", false
	}
	return cleaned, true
}

func cleanText(s string) (string, bool) {
	cleaned := Collapse(StripNonLatin(s))
	if looksEmpty(cleaned) {
		return "", false
	}
	return cleaned, true
}

func cleanNumber(s string) (string, bool) {
	digits := Digits(s)
	if digits == "" {
		return s, false
	}
	return digits, true
}

// cleanAmount strips currency symbols and thousands separators. Decimal
// fractions are truncated, matching how share counts and paid-up amounts are
// recorded in the registry's tables.
func cleanAmount(s string) (string, bool) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = strings.NewReplacer("HKD", "", "HK$", "", "$", "", ",", "").Replace(s)
	digits := Digits(s)
	if digits == "" {
		return s, false
	}
	return digits, true
}

// cleanPhone normalizes Hong Kong telephone and fax numbers: the 852 country
// prefix (with or without a leading zero) is dropped and exactly eight
// digits are kept.
func cleanPhone(s string) (string, bool) {
	digits := Digits(s)
	switch {
	case strings.HasPrefix(digits, "0852"):
		digits = digits[4:]
	case strings.HasPrefix(digits, "852") && len(digits) > 8:
		digits = digits[3:]
	}
	if len(digits) < 8 {
		return digits, false
	}
	return digits[:8], true
}

func cleanEmail(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !emailRe.MatchString(s) {
		return s, false
	}
	return s, true
}

// cleanHKID reformats a recognized identifier into the registry's printed
// form: prefix letters, six digits, and the check character in parentheses,
// e.g. A123456(7).
func cleanHKID(s string) (string, bool) {
	cleaned := nonUpNumRe.ReplaceAllString(strings.ToUpper(s), "")
	if len(cleaned) < 8 {
		return cleaned, false
	}
	return cleaned[:len(cleaned)-1] + "(" + cleaned[len(cleaned)-1:] + ")", true
}

// cleanTable splits a column cut from a ruled table into its entries.
// Entries are delimited by blank lines or wide gaps in the OCR output and
// joined with semicolons.
func cleanTable(raw string) (string, bool) {
	parts := tableSplit.Split(StripNonLatin(raw), -1)
	var entries []string
	for _, p := range parts {
		p = Collapse(p)
		if p == "" || nilMarkers[strings.ToLower(p)] {
			continue
		}
		entries = append(entries, p)
	}
	if len(entries) == 0 {
		return "", false
	}
	return strings.Join(entries, ";"), true
}
