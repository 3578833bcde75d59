// Package similarity computes normalized string similarity between two
// free-text transaction descriptions.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score returns a similarity value in [0, 1] between two descriptions.
// Comparison is case-insensitive after trimming surrounding whitespace.
// An empty input on either side scores 0; equal normalized strings score 1;
// otherwise the score is 1 - editDistance/maxRuneLength. The function is
// symmetric in its arguments.
func Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	distance := levenshtein.ComputeDistance(a, b)
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}

	return 1 - float64(distance)/float64(longest)
}
