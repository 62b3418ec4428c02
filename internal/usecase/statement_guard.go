package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
)

var forbiddenKeywords = []string{
	"insert", "update", "delete", "merge", "upsert",
	"drop", "alter", "create", "truncate", "rename", "comment",
	"grant", "revoke", "copy", "call", "do", "execute", "prepare",
	"vacuum", "analyze", "reindex", "cluster", "lock", "refresh",
	"set", "reset", "listen", "notify", "into",
}

var forbiddenFunctions = []string{"pg_sleep", "pg_read_file", "pg_terminate_backend", "lo_import", "lo_export", "dblink"}

var (
	forbiddenKeywordPattern  = regexp.MustCompile(`\b(` + strings.Join(forbiddenKeywords, "|") + `)\b`)
	forbiddenFunctionPattern = regexp.MustCompile(`\b(` + strings.Join(forbiddenFunctions, "|") + `)\s*\(`)
	leadingKeywordPattern    = regexp.MustCompile(`^\(*\s*(select|with)\b`)
)

// StatementGuard restricts model-authored SQL to a single read over the
// described tables. A disabled guard accepts everything.
type StatementGuard struct {
	enabled       bool
	tables        []string
	tablePatterns []*regexp.Regexp
}

func NewStatementGuard(enabled bool, schema nlquery.SchemaDescriptor) *StatementGuard {
	tables := schema.Tables()
	patterns := make([]*regexp.Regexp, 0, len(tables))
	for _, table := range tables {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(table)+`\b`))
	}
	return &StatementGuard{
		enabled:       enabled,
		tables:        tables,
		tablePatterns: patterns,
	}
}

func (g *StatementGuard) Enabled() bool {
	return g != nil && g.enabled
}

func (g *StatementGuard) Check(stmt nlquery.SQLStatement) error {
	if !g.Enabled() {
		return nil
	}

	stripped, err := stripLiteralsAndComments(string(stmt))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatementRejected, err)
	}
	stripped = strings.ToLower(strings.TrimSpace(stripped))
	if stripped == "" {
		return fmt.Errorf("%w: statement is empty", ErrStatementRejected)
	}

	stripped = strings.TrimSpace(strings.TrimSuffix(stripped, ";"))
	if strings.Contains(stripped, ";") {
		return fmt.Errorf("%w: multiple statements are not allowed", ErrStatementRejected)
	}
	if !leadingKeywordPattern.MatchString(stripped) {
		return fmt.Errorf("%w: only SELECT statements are allowed", ErrStatementRejected)
	}
	if match := forbiddenKeywordPattern.FindString(stripped); match != "" {
		return fmt.Errorf("%w: keyword %q is not allowed", ErrStatementRejected, match)
	}
	if match := forbiddenFunctionPattern.FindStringSubmatch(stripped); len(match) > 1 {
		return fmt.Errorf("%w: function %q is not allowed", ErrStatementRejected, match[1])
	}

	for _, pattern := range g.tablePatterns {
		if pattern.MatchString(stripped) {
			return nil
		}
	}
	return fmt.Errorf("%w: statement must reference one of %v", ErrStatementRejected, g.tables)
}

// stripLiteralsAndComments blanks out string literals and comments and
// unquotes identifiers, so keyword checks only see SQL tokens. It follows the
// postgres lexer for escape strings (E'..'), dollar quotes ($tag$..$tag$) and
// nested block comments. Anything it cannot delimit the way the server would
// is an error.
func stripLiteralsAndComments(sql string) (string, error) {
	var b strings.Builder
	b.Grow(len(sql))

	runes := []rune(sql)
	n := len(runes)
	for i := 0; i < n; i++ {
		r := runes[i]
		switch {
		case r == '-' && i+1 < n && runes[i+1] == '-':
			for i < n && runes[i] != '\n' {
				i++
			}
			b.WriteRune(' ')
		case r == '/' && i+1 < n && runes[i+1] == '*':
			end, ok := skipBlockComment(runes, i)
			if !ok {
				return "", fmt.Errorf("unterminated block comment")
			}
			i = end
			b.WriteRune(' ')
		case r == '\'':
			escaped := i > 0 && (runes[i-1] == 'e' || runes[i-1] == 'E') && (i < 2 || !isIdentRune(runes[i-2]))
			end, ok := skipQuoted(runes, i, escaped)
			if !ok {
				return "", fmt.Errorf("unterminated string literal")
			}
			if !escaped && strings.ContainsRune(string(runes[i:end]), '\\') {
				// Meaning depends on standard_conforming_strings.
				return "", fmt.Errorf("backslash in string literal; use E'' syntax")
			}
			i = end
			b.WriteString(" '' ")
		case r == '"':
			end, ok := skipQuoted(runes, i, false)
			if !ok {
				return "", fmt.Errorf("unterminated quoted identifier")
			}
			b.WriteString(" " + strings.ReplaceAll(string(runes[i+1:end]), `""`, `"`) + " ")
			i = end
		case r == '$' && (i == 0 || !isIdentRune(runes[i-1])):
			tag, ok := dollarTag(runes, i)
			if !ok {
				b.WriteRune(r)
				continue
			}
			body := string(runes[i+len(tag):])
			closing := strings.Index(body, string(tag))
			if closing < 0 {
				return "", fmt.Errorf("unterminated dollar-quoted string")
			}
			i += len(tag) + len([]rune(body[:closing])) + len(tag) - 1
			b.WriteString(" '' ")
		default:
			b.WriteRune(r)
		}
	}

	return b.String(), nil
}

// skipBlockComment returns the index of the closing '/' of the comment that
// opens at start. Block comments nest.
func skipBlockComment(runes []rune, start int) (int, bool) {
	depth := 0
	for i := start; i+1 < len(runes); i++ {
		switch {
		case runes[i] == '/' && runes[i+1] == '*':
			depth++
			i++
		case runes[i] == '*' && runes[i+1] == '/':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// skipQuoted returns the index of the quote closing the literal that opens at
// start. A doubled quote is part of the literal; with backslashEscapes a
// backslash also escapes the next rune.
func skipQuoted(runes []rune, start int, backslashEscapes bool) (int, bool) {
	quote := runes[start]
	for i := start + 1; i < len(runes); i++ {
		switch {
		case backslashEscapes && runes[i] == '\\':
			i++
		case runes[i] == quote:
			if i+1 < len(runes) && runes[i+1] == quote {
				i++
				continue
			}
			return i, true
		}
	}
	return 0, false
}

// dollarTag returns the opening "$tag$" at start, or false for anything else
// such as a $1 placeholder.
func dollarTag(runes []rune, start int) ([]rune, bool) {
	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		if r == '$' {
			return runes[start : i+1], true
		}
		if r == '_' || unicode.IsLetter(r) || (i > start+1 && unicode.IsDigit(r)) {
			continue
		}
		return nil, false
	}
	return nil, false
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
