package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)

// Normalize lower-cases text, applies compatibility normalization and strips
// diacritics so "Café" and "cafe" compare equal.
func Normalize(text string) string {
	// transformers keep state and cannot be shared between goroutines
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// Tokenize splits normalized text into word tokens, dropping punctuation.
func Tokenize(text string) []string {
	return tokenizeNormalized(Normalize(text))
}

// truncateRunes bounds text to limit runes. A non-positive limit disables the bound.
func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	count := 0
	for index := range text {
		if count == limit {
			return text[:index]
		}
		count++
	}
	return text
}

func tokenizeNormalized(normalized string) []string {
	return strings.Fields(nonTokenChars.ReplaceAllString(normalized, " "))
}
