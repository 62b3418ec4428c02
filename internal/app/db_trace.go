package app

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Model-authored statements can be long; spans keep a bounded prefix.
const maxTracedQueryLength = 1024

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// String literals carry values lifted from user questions.
	queryLiteralRegex = regexp.MustCompile(`(?:\b[Ee])?'(?:[^'\\]|''|\\.)*'`)
)

// formatDBQueryForTrace renders a statement for db.statement span attributes
// with literals replaced by '?'.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryLiteralRegex.ReplaceAllString(query, "'?'")
	normalized = strings.TrimRight(queryWhitespaceRegex.ReplaceAllString(normalized, " "), "; ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
