// Package similarity scores how closely two catalog title strings match.
//
// Streaming pages hand us noisy titles ("Stranger Things: Season 4",
// "STRANGER THINGS") that must be compared against canonical catalog
// entries. A single metric is not robust enough across punctuation,
// casing, and partial-wording differences, so Score blends four
// signals: edit distance, Jaro, substring containment, and word overlap.
package similarity

import (
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Blend weights. Character-level metrics (edit distance, Jaro) carry
// 0.3 each; token-level metrics (containment, word overlap) carry 0.2
// each. The split is load-bearing for reproducible scoring and must
// not drift.
const (
	weightEditDistance = 0.3
	weightJaro         = 0.3
	weightContainment  = 0.2
	weightWordOverlap  = 0.2
)

var (
	nonWordRegex    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a title for comparison: lowercase, strip
// punctuation, collapse whitespace runs, trim. Idempotent.
func Normalize(s string) string {
	n := strings.ToLower(s)
	n = nonWordRegex.ReplaceAllString(n, "")
	n = whitespaceRegex.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// Score returns a similarity value in [0,1] for two title strings.
// Titles that normalize identically score exactly 1.0; this fast path
// keeps equal titles free of floating-point noise. All sub-scores are
// computed over the normalized forms and every sub-score is symmetric,
// so Score(a, b) == Score(b, a).
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	// One side normalized away entirely: nothing to compare against.
	if na == "" || nb == "" {
		return 0.0
	}

	return weightEditDistance*editDistanceScore(na, nb) +
		weightJaro*float64(edlib.JaroSimilarity(na, nb)) +
		weightContainment*containmentScore(na, nb) +
		weightWordOverlap*wordOverlapScore(na, nb)
}

// editDistanceScore maps Levenshtein distance into [0,1]:
// 1 - distance / max(len). Identical strings score 1, disjoint
// strings of equal length score 0.
func editDistanceScore(a, b string) float64 {
	aLen := len([]rune(a))
	bLen := len([]rune(b))
	maxLen := max(aLen, bLen)
	if maxLen == 0 {
		return 1.0
	}
	dist := edlib.LevenshteinDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// containmentScore rewards one title containing the other. Full
// containment of the shorter string scores a flat 0.8 ("The Office"
// inside "The Office (US)"); otherwise the longest common contiguous
// substring is measured against the longer string.
func containmentScore(a, b string) float64 {
	shorter, longer := a, b
	if len([]rune(shorter)) > len([]rune(longer)) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return 0.8
	}

	maxLen := len([]rune(longer))
	if maxLen == 0 {
		return 0.0
	}
	return float64(longestCommonSubstring(a, b)) / float64(maxLen)
}

// longestCommonSubstring returns the rune length of the longest
// contiguous substring shared by a and b (classic DP over a rolling
// row).
func longestCommonSubstring(a, b string) int {
	aRunes := []rune(a)
	bRunes := []rune(b)
	if len(aRunes) == 0 || len(bRunes) == 0 {
		return 0
	}

	prev := make([]int, len(bRunes)+1)
	curr := make([]int, len(bRunes)+1)
	longest := 0

	for i := 1; i <= len(aRunes); i++ {
		for j := 1; j <= len(bRunes); j++ {
			if aRunes[i-1] == bRunes[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > longest {
					longest = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return longest
}

// wordOverlapScore computes the Jaccard index over the word sets of
// two normalized titles. Single-rune tokens are dropped; they are
// mostly articles and initials that inflate overlap between unrelated
// titles.
func wordOverlapScore(a, b string) float64 {
	aSet := tokenSet(a)
	bSet := tokenSet(b)

	if len(aSet) == 0 && len(bSet) == 0 {
		return 1.0
	}
	if len(aSet) == 0 || len(bSet) == 0 {
		return 0.0
	}

	intersection := 0
	for t := range aSet {
		if bSet[t] {
			intersection++
		}
	}
	union := len(aSet) + len(bSet) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	var set map[string]bool
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) <= 1 {
			continue
		}
		if set == nil {
			set = make(map[string]bool)
		}
		set[tok] = true
	}
	return set
}
