package complaint

import (
	"civicconnect/backend/internal/config"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown complaint category")

// categoryLabels maps each stored token to its form label.
var categoryLabels = func() map[string]string {
	m := make(map[string]string, len(config.Categories))
	for _, label := range config.Categories {
		m[tokenize(label)] = label
	}
	return m
}()

// tokenize lowercases s and joins its words with hyphens.
func tokenize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), "-"))
}

// NormalizeCategory accepts a form label ("Street Lighting") or a token
// ("street-lighting") and returns the token.
func NormalizeCategory(s string) (string, error) {
	token := tokenize(s)
	if _, ok := categoryLabels[token]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return token, nil
}

// CategoryLabel returns the form label for a stored token, or the token itself
// when it is not one of ours.
func CategoryLabel(token string) string {
	if label, ok := categoryLabels[token]; ok {
		return label
	}
	return token
}

// CategoryTokens lists the tokens in form order.
func CategoryTokens() []string {
	tokens := make([]string, 0, len(config.Categories))
	for _, label := range config.Categories {
		tokens = append(tokens, tokenize(label))
	}
	return tokens
}
