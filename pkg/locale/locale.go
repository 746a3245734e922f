// Package locale handles the language tokens that select which translation
// targets appear in a stats report.
package locale

import (
	"strings"

	"github.com/deepin-community/transtats/pkg/errors"
)

// Token is a locale identifier such as "zh_CN".
type Token string

// DefaultList is the language selection used when neither the config file nor
// the --languages flag provides one.
const DefaultList = "zh_CN,zh_HK,zh_TW"

// ParseList parses a comma-separated language list into an ordered slice of
// tokens. Surrounding whitespace is trimmed, empty items are dropped and
// repeats keep only their first occurrence. Each token is validated; a list
// that ends up empty is an error.
func ParseList(s string) ([]Token, error) {
	seen := make(map[Token]bool)
	var tokens []Token

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := errors.ValidateLocale(part); err != nil {
			return nil, err
		}
		tok := Token(part)
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}

	if len(tokens) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyList, "language list is empty")
	}
	return tokens, nil
}

// Join renders tokens as the comma-joined argument expected by the stats
// tool's -l flag.
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Display renders tokens for human-readable messages ("zh_CN, zh_TW").
func Display(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
