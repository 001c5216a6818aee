package riskanalysis

import (
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Result is the outcome of analyzing a piece of content's title and
// description against the keyword lexicon.
type Result struct {
	HasRisk              bool
	Categories           []Category
	CategorizedKeywords  map[Category][]string
	OverallSeverity      Severity
	ConfidenceScore      float64
	TotalKeywordsMatched int
}

// matchKeywords checks text (already lowercased by the caller) for lexicon
// keywords. Multi-word phrases match as substrings; single words match only
// as whole tokens, so "hat" doesn't match inside "chat" but does match in
// "the hat is red".
func matchKeywords(text string) []string {
	if text == "" {
		return nil
	}

	var found []string

	for _, keyword := range allKeywords {
		if strings.Contains(keyword, " ") && strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}

	words := make(map[string]struct{})
	for _, word := range wordPattern.FindAllString(text, -1) {
		words[word] = struct{}{}
	}

	for _, keyword := range allKeywords {
		if strings.Contains(keyword, " ") {
			continue
		}

		if _, ok := words[keyword]; ok {
			found = append(found, keyword)
		}
	}

	return found
}

// AnalyzeText returns every lexicon keyword present in text.
func AnalyzeText(text string) []string {
	return matchKeywords(strings.ToLower(text))
}

// AssignFlags groups matched keywords by the risk category they belong to.
func AssignFlags(matchedKeywords []string) map[Category][]string {
	flags := make(map[Category][]string)

	for _, keyword := range matchedKeywords {
		category, ok := keywordToCategory[keyword]
		if !ok {
			continue
		}

		flags[category] = append(flags[category], keyword)
	}

	return flags
}

// CalculateRiskScore combines keyword severities into a bounded 0-1 score
// using a log scale so many low-severity matches don't saturate as fast as
// a handful of high-severity ones.
func CalculateRiskScore(matchedKeywords []string) float64 {
	if len(matchedKeywords) == 0 {
		return 0
	}

	totalWeight := 0
	for _, keyword := range matchedKeywords {
		totalWeight += keywordWeight(keyword)
	}

	score := 0.3 * math.Log2(1+float64(totalWeight))

	return math.Min(1.0, score)
}

// CalculateSeverity buckets a risk score into low/medium/high.
func CalculateSeverity(matchedKeywords []string) Severity {
	if len(matchedKeywords) == 0 {
		return SeverityLow
	}

	score := CalculateRiskScore(matchedKeywords)

	switch {
	case score >= 0.7:
		return SeverityHigh
	case score >= 0.4:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AnalyzeContent analyzes a video's title and description together, with
// the title counted twice so a keyword appearing there weighs more than one
// appearing only in the (often much longer) description.
func AnalyzeContent(title, description string) Result {
	combinedText := title + " " + title + " " + description

	matched := AnalyzeText(combinedText)
	categorized := AssignFlags(matched)

	categories := make([]Category, 0, len(categorized))
	for category := range categorized {
		categories = append(categories, category)
	}

	return Result{
		HasRisk:              len(matched) > 0,
		Categories:           categories,
		CategorizedKeywords:  categorized,
		OverallSeverity:      CalculateSeverity(matched),
		ConfidenceScore:      CalculateRiskScore(matched),
		TotalKeywordsMatched: len(matched),
	}
}
