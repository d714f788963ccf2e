package analysis

import (
	"regexp"
	"slices"
	"strings"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultPatternCacheSize = 1024

// patternCache memoises compiled custom regex filters by pattern text.
type patternCache struct {
	compiled *lru.Cache[string, *regexp.Regexp]
}

func newPatternCache(size int) *patternCache {
	if size <= 0 {
		size = defaultPatternCacheSize
	}
	compiled, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(err)
	}
	return &patternCache{compiled: compiled}
}

func (c *patternCache) get(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.compiled.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	c.compiled.Add(pattern, re)
	return re, nil
}

// document is the prepared form of one piece of content.
type document struct {
	raw        string
	normalized string
	tokens     []string
	kind       entities.ContentKind
}

func newDocument(text string, kind entities.ContentKind) document {
	normalized := Normalize(text)
	return document{
		raw:        text,
		normalized: normalized,
		tokens:     tokenizeNormalized(normalized),
		kind:       kind,
	}
}

// matchFilter returns the matched texts that are not exceptions. A nil result
// means the filter did not fire.
func (c *patternCache) matchFilter(filter entities.Filter, doc document) ([]string, error) {
	var found []string
	switch filter.Type {
	case entities.FilterTypeWord:
		words := Tokenize(filter.Pattern)
		if containsRun(doc.tokens, words) {
			found = []string{Normalize(strings.TrimSpace(filter.Pattern))}
		}
	case entities.FilterTypePhrase:
		phrase := Normalize(strings.TrimSpace(filter.Pattern))
		if phrase != "" && strings.Contains(doc.normalized, phrase) {
			found = []string{phrase}
		}
	case entities.FilterTypeRegex:
		re, err := c.get(filter.Pattern)
		if err != nil {
			return nil, err
		}
		found = re.FindAllString(doc.raw, -1)
	default:
		return nil, nil
	}

	kept := found[:0]
	for _, match := range found {
		if !filter.IsException(match) {
			kept = append(kept, match)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}
	return kept, nil
}

// containsRun reports whether words occur as consecutive tokens. Patterns
// with punctuation such as "o'brien" tokenise to more than one word.
func containsRun(tokens, words []string) bool {
	if len(words) == 0 || len(words) > len(tokens) {
		return false
	}
	for i := 0; i+len(words) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(words)], words) {
			return true
		}
	}
	return false
}
