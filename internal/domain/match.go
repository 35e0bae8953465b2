package domain

import "github.com/agnivade/levenshtein"

// Matcher maps a rewritten label onto the official vocabulary. Implementations
// return the canonical name and true, or ("", false) when no candidate is
// acceptably close. The distance algorithm is swappable behind this interface.
type Matcher interface {
	Match(label string) (string, bool)
}

// LevenshteinMatcher picks the vocabulary entry with the minimum edit
// distance to the label. Ties go to the earlier vocabulary entry; a best
// distance above MaxDistance is a miss.
type LevenshteinMatcher struct {
	vocabulary  Vocabulary
	maxDistance int
}

// NewLevenshteinMatcher creates a matcher over the given vocabulary.
// maxDistance bounds how far a label may be from its best candidate and
// still count as matched.
func NewLevenshteinMatcher(vocabulary Vocabulary, maxDistance int) *LevenshteinMatcher {
	return &LevenshteinMatcher{vocabulary: vocabulary, maxDistance: maxDistance}
}

func (m *LevenshteinMatcher) Match(label string) (string, bool) {
	bestIdx := -1
	bestDist := 0
	for i, candidate := range m.vocabulary {
		d := levenshtein.ComputeDistance(label, candidate)
		if d == 0 {
			return candidate, true
		}
		if bestIdx == -1 || d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx == -1 || bestDist > m.maxDistance {
		return "", false
	}
	return m.vocabulary[bestIdx], true
}
