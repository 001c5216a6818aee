package riskanalysis_test

import (
	"testing"

	"github.com/parentwatch/scanguard/pkg/riskanalysis"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string has no matches",
			input:    "",
			expected: nil,
		},
		{
			name:     "single word keyword does not match as a substring of another word",
			input:    "she sat in the hammock all afternoon",
			expected: nil,
		},
		{
			name:     "single word keyword matches as its own token",
			input:    "this content spreads hate online",
			expected: []string{"hate"},
		},
		{
			name:     "multi-word phrase matches as a substring",
			input:    "this is a tide pod challenge video",
			expected: []string{"tide pod", "tide pod challenge"},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := riskanalysis.AnalyzeText(tt.input)
			assert.ElementsMatch(t, tt.expected, result)
		})
	}
}

func TestAssignFlags(t *testing.T) {
	t.Parallel()

	flags := riskanalysis.AssignFlags([]string{"hate", "suicide", "unknownterm"})

	assert.ElementsMatch(t, []string{"hate"}, flags[riskanalysis.CategoryHateSpeech])
	assert.ElementsMatch(t, []string{"suicide"}, flags[riskanalysis.CategorySelfHarm])
	assert.Len(t, flags, 2)
}

func TestCalculateSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keywords []string
		expected riskanalysis.Severity
	}{
		{
			name:     "no matches is low",
			keywords: nil,
			expected: riskanalysis.SeverityLow,
		},
		{
			name:     "single low-weight keyword is low",
			keywords: []string{"troll"},
			expected: riskanalysis.SeverityLow,
		},
		{
			name:     "one weight-3 keyword alone is medium",
			keywords: []string{"murder"},
			expected: riskanalysis.SeverityMedium,
		},
		{
			name:     "multiple weight-3 keywords reach high",
			keywords: []string{"murder", "execution", "genocide"},
			expected: riskanalysis.SeverityHigh,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, riskanalysis.CalculateSeverity(tt.keywords))
		})
	}
}

func TestAnalyzeContent(t *testing.T) {
	t.Parallel()

	t.Run("title keyword counts double against description", func(t *testing.T) {
		t.Parallel()

		titleMatch := riskanalysis.AnalyzeContent("this video is about hate", "nothing else")
		descriptionMatch := riskanalysis.AnalyzeContent("nothing else", "this video is about hate")

		assert.Equal(t, 2, titleMatch.TotalKeywordsMatched)
		assert.Equal(t, 1, descriptionMatch.TotalKeywordsMatched)
		assert.Greater(t, titleMatch.ConfidenceScore, descriptionMatch.ConfidenceScore)
	})

	t.Run("clean content has no risk", func(t *testing.T) {
		t.Parallel()

		result := riskanalysis.AnalyzeContent("How to bake bread", "A simple recipe for beginners")

		assert.False(t, result.HasRisk)
		assert.Equal(t, riskanalysis.SeverityLow, result.OverallSeverity)
		assert.Empty(t, result.Categories)
	})

	t.Run("risky content is flagged with a category", func(t *testing.T) {
		t.Parallel()

		result := riskanalysis.AnalyzeContent(
			"Warning: Dangerous Challenge Going Viral",
			"This video discusses the risks of the new viral challenge that has led to several injuries.",
		)

		assert.True(t, result.HasRisk)
		assert.Contains(t, result.Categories, riskanalysis.CategoryDangerousChallenge)
	})
}
