package retrieval

import "strings"

// maxKeywords bounds the number of search terms extracted from one query.
const maxKeywords = 10

// minKeywordLen: tokens this short are noise ("a", "is", "do").
const minKeywordLen = 3

// minFallbackWordLen: the fallback tokenizer keeps words longer than this.
const minFallbackWordLen = 3

// stopWords are common English words carrying no search signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "may": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "who": {}, "did": {}, "get": {},
	"let": {}, "say": {}, "she": {}, "too": {}, "use": {}, "way": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "with": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "this": {},
	"that": {}, "then": {}, "than": {}, "them": {}, "they": {},
	"there": {}, "their": {}, "these": {}, "those": {}, "from": {},
	"into": {}, "about": {}, "does": {}, "were": {}, "been": {},
	"being": {}, "your": {}, "mine": {}, "ours": {}, "some": {},
	"such": {}, "only": {}, "also": {}, "just": {}, "very": {},
	"please": {}, "want": {}, "need": {}, "know": {}, "tell": {},
}

// ExtractKeywords tokenizes a free-text query into a bounded, ordered
// list of meaningful search terms. Pure and deterministic; empty input
// yields an empty result.
func ExtractKeywords(query string) []string {
	normalized := normalizeQuery(query)

	var keywords []string
	for _, token := range strings.Fields(normalized) {
		if len(token) < minKeywordLen {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// fallbackWords tokenizes the raw query into words longer than three
// characters, skipping the stop-word filter on purpose: the fallback
// search casts a wider net than the primary one.
func fallbackWords(query string) []string {
	var words []string
	for _, token := range strings.Fields(normalizeQuery(query)) {
		if len(token) > minFallbackWordLen {
			words = append(words, token)
		}
	}
	return words
}

// normalizeQuery lowercases and replaces every non-alphanumeric rune
// with a space so punctuation never glues tokens together.
func normalizeQuery(query string) string {
	lowered := strings.ToLower(query)
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return ' '
	}, lowered)
}
