package identity

import (
	"math"
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Similarity scores two slugs from 0 to 100. It is the better of the Indel
// ratio of the raw slugs and of their hyphen tokens sorted, so
// "jones-aaron" and "aaron-jones" score 100.
func Similarity(a, b string) int {
	return max(ratio(a, b), ratio(tokenSort(a), tokenSort(b)))
}

// ratio is 100 * (1 - indel/(len(a)+len(b))), where an indel distance counts
// a substitution as a delete plus an insert.
func ratio(a, b string) int {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

func tokenSort(s string) string {
	tokens := strings.FieldsFunc(s, func(r rune) bool { return r == '-' })
	sort.Strings(tokens)
	return strings.Join(tokens, "-")
}
