package alerr

import "fmt"

// editDistance returns the Levenshtein distance between a and b over bytes.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}

	return row[len(b)]
}

// maxSuggestDistance bounds how far a typo may drift from a known name.
const maxSuggestDistance = 3

// ClosestMatch returns the option nearest to input, if any lies within
// maxSuggestDistance edits.
func ClosestMatch(input string, options []string) (string, bool) {
	best := ""
	bestDist := maxSuggestDistance + 1

	for _, opt := range options {
		if d := editDistance(input, opt); d < bestDist {
			bestDist = d
			best = opt
		}
	}

	return best, bestDist <= maxSuggestDistance
}

// DidYouMean returns a "did you mean 'X'?" hint, or "" when nothing is close.
func DidYouMean(input string, options []string) string {
	if match, ok := ClosestMatch(input, options); ok {
		return fmt.Sprintf("did you mean '%s'?", match)
	}
	return ""
}
