package security

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
)

var (
	ErrSearchQueryTooLong      = errors.New("search query too long")
	ErrSearchQueryInvalidChars = errors.New("search query contains invalid characters")
)

// ValidateSearchQuery trims a search term and rejects terms that are too long
// or carry control characters. Queries are always bound as parameters, so
// letters, digits, punctuation and symbols are all accepted.
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", ErrSearchQueryTooLong
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", ErrSearchQueryInvalidChars
		}
	}

	return query, nil
}

// isValidSearchChar checks if a character is safe for search queries
func isValidSearchChar(char rune) bool {
	return char != utf8.RuneError && !unicode.IsControl(char)
}

// EscapeLike escapes LIKE wildcards so the term matches literally.
// Use together with `ESCAPE '\'`.
func EscapeLike(query string) string {
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	query = strings.ReplaceAll(query, "_", `\_`)

	return query
}
