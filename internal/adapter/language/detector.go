package language

import (
	"strings"

	"swissvote/internal/domain"
)

// KeywordDetector guesses the query language from indicator words. It
// is a heuristic, not a classifier; unknown input defaults to German.
type KeywordDetector struct{}

func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{}
}

var frenchIndicators = []string{"quelle", "quel", "quels", "quelles", "qu'est-ce", "votation"}

var italianIndicators = []string{"quale", "quali", "che cosa", "votazione"}

func (d *KeywordDetector) DetectLanguage(text string) string {
	lower := strings.ToLower(text)

	for _, word := range frenchIndicators {
		if strings.Contains(lower, word) {
			return "fr"
		}
	}

	for _, word := range italianIndicators {
		if strings.Contains(lower, word) {
			return "it"
		}
	}

	return domain.DefaultLanguage
}
