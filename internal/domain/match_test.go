package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testVocabulary = Vocabulary{
	"FLOOD", "FLASH FLOOD", "THUNDERSTORM WIND", "TORNADO", "HAIL",
	"HURRICANE (TYPHOON)", "WINTER WEATHER", "WILDFIRE", "HEAT", "RIP CURRENT",
}

func TestLevenshteinMatcher_Match(t *testing.T) {
	m := NewLevenshteinMatcher(testVocabulary, 5)

	t.Run("exact match", func(t *testing.T) {
		got, ok := m.Match("TORNADO")
		assert.True(t, ok)
		assert.Equal(t, "TORNADO", got)
	})

	t.Run("near match", func(t *testing.T) {
		got, ok := m.Match("THUNDERSTORM WINDS")
		assert.True(t, ok)
		assert.Equal(t, "THUNDERSTORM WIND", got)
	})

	t.Run("trailing qualifier within distance", func(t *testing.T) {
		got, ok := m.Match("HEAT WAVE")
		assert.True(t, ok)
		assert.Equal(t, "HEAT", got)
	})

	t.Run("miss beyond max distance", func(t *testing.T) {
		got, ok := m.Match("ASTRONOMICAL LOW TIDE")
		assert.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("tie goes to earlier vocabulary entry", func(t *testing.T) {
		tie := NewLevenshteinMatcher(Vocabulary{"HAIL", "HEAT"}, 5)
		// "HAET" is distance 2 from both HAIL and HEAT; vocabulary
		// order decides.
		got, ok := tie.Match("HAET")
		assert.True(t, ok)
		assert.Equal(t, "HAIL", got)
	})

	t.Run("empty vocabulary never matches", func(t *testing.T) {
		empty := NewLevenshteinMatcher(nil, 5)
		_, ok := empty.Match("TORNADO")
		assert.False(t, ok)
	})
}

func TestLevenshteinMatcher_ZeroDistanceThreshold(t *testing.T) {
	// maxDistance 0 degrades to exact matching.
	m := NewLevenshteinMatcher(testVocabulary, 0)

	_, ok := m.Match("TORNADOS")
	assert.False(t, ok)

	got, ok := m.Match("HAIL")
	assert.True(t, ok)
	assert.Equal(t, "HAIL", got)
}
