package classify

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/regscan/regscan/internal/normalize"
)

// BestMatch finds the known title most similar to any window of the page
// text and returns it with its similarity score in [0,1]. An exact title
// occurrence scores 1.0; each OCR character substitution in the title costs
// roughly 1/len(title).
func BestMatch(pageText string, titles []string) (string, float64) {
	text := strings.ToLower(normalize.Collapse(pageText))
	var bestTitle string
	var bestScore float64
	for _, title := range titles {
		score := windowSimilarity(text, strings.ToLower(title))
		// Prefer the longer title on ties: "Notice of Change in Particulars
		// of Company Secretary" contains "Notice of Change of Company
		// Secretary" almost verbatim.
		if score > bestScore || (score == bestScore && len(title) > len(bestTitle)) {
			bestTitle, bestScore = title, score
		}
	}
	return bestTitle, bestScore
}

// windowSimilarity slides a window the length of the needle across the
// haystack, anchored at word starts, and returns the best normalized
// levenshtein similarity.
func windowSimilarity(haystack, needle string) float64 {
	if needle == "" {
		return 0
	}
	if strings.Contains(haystack, needle) {
		return 1
	}
	n := len(needle)
	best := 0.0
	for _, start := range wordStarts(haystack) {
		end := start + n
		if end > len(haystack) {
			end = len(haystack)
		}
		window := haystack[start:end]
		dist := levenshtein.ComputeDistance(window, needle)
		denom := n
		if len(window) > denom {
			denom = len(window)
		}
		score := 1 - float64(dist)/float64(denom)
		if score > best {
			best = score
		}
		if start+n > len(haystack) {
			break
		}
	}
	return best
}

func wordStarts(s string) []int {
	starts := []int{0}
	for i := 1; i < len(s); i++ {
		if s[i-1] == ' ' && s[i] != ' ' {
			starts = append(starts, i)
		}
	}
	return starts
}
