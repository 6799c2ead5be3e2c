package relevance

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// stopwords filtered out of user queries before scoring. The vectorizer
// filters its own list again; the double filter is harmless.
var stopwords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to",
		"of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were",
		"be", "been", "being", "it", "this", "that", "these", "those", "from",
		"up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after",
		"above", "below", "out", "off", "own", "same", "too", "very", "can",
		"will", "just", "don", "should", "now", "i", "you", "he", "she", "we",
		"they", "what", "which", "who", "whom", "me", "him", "her", "them",
		"my", "your", "his", "its", "our", "their", "do", "does", "did", "have",
		"has", "had", "not", "no", "nor", "all", "any", "both", "each", "few",
		"more", "most", "other", "some", "only", "where", "when", "why", "how",
	}
	for _, w := range words {
		stopwords[w] = struct{}{}
	}
}

// NormalizeQuery lowercases the query, strips it to word tokens and removes
// stop words. A query of nothing but stop words yields an empty slice.
func NormalizeQuery(query string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(query), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, isStop := stopwords[tok]; isStop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
