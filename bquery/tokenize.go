package bquery

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	match "github.com/alexpantyukhin/go-pattern-match"
)

// TokenKind distinguishes a named field step from a bracketed index step.
type TokenKind uint8

const (
	TokenName TokenKind = iota
	TokenIndex
)

// Token is one step of a tokenized path: either a named field or a
// bracketed index.
type Token struct {
	Kind  TokenKind
	Name  string
	Index int
}

// classifyStep decides, from the lookahead byte at a step boundary, whether
// the step is a bracketed index or a bare name. Mirrors breflect's
// classifyFieldName in using go-pattern-match for a binary dispatch.
func classifyStep(lookahead byte) TokenKind {
	m := match.Match(lookahead == '[')
	m.When(true, TokenIndex)
	m.When(false, TokenName)
	matched, result := m.Result()
	if !matched {
		return TokenName
	}
	kind, _ := result.(TokenKind)
	return kind
}

// Tokenize splits a path string into its ordered Name/Index steps:
// dot-separated names with optional bracketed indices, e.g.
// "vdata.layers[0].data[0]". The first step never requires a leading dot.
func Tokenize(path string) ([]Token, error) {
	trimmed := strings.TrimSpace(path)

	var tokens []Token
	i := 0
	for i < len(trimmed) {
		switch trimmed[i] {
		case '.':
			i++
			continue
		case ' ', '\t':
			i++
			continue
		}

		switch classifyStep(trimmed[i]) {
		case TokenIndex:
			end := strings.IndexByte(trimmed[i:], ']')
			if end < 0 {
				return nil, errors.Wrapf(ErrInvalidQuery, "tokenize %q: unterminated '[' at %d", path, i)
			}
			end += i
			digits := trimmed[i+1 : end]
			if digits == "" || !isAllDigits(digits) {
				return nil, errors.Wrapf(ErrInvalidQuery, "tokenize %q: invalid index at %d", path, i)
			}
			value, err := strconv.Atoi(digits)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidQuery, "tokenize %q: unparsable index at %d", path, i)
			}
			tokens = append(tokens, Token{Kind: TokenIndex, Index: value})
			i = end + 1
		default:
			end := i
			for end < len(trimmed) && trimmed[end] != '.' && trimmed[end] != '[' {
				end++
			}
			name := trimmed[i:end]
			if !isIdentifier(name) {
				return nil, errors.Wrapf(ErrInvalidQuery, "tokenize %q: invalid identifier %q at %d", path, name, i)
			}
			tokens = append(tokens, Token{Kind: TokenName, Name: name})
			i = end
		}
	}

	if len(tokens) == 0 {
		return nil, errors.Wrap(ErrInvalidQuery, "tokenize: empty path")
	}
	return tokens, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			continue
		case i > 0 && r >= '0' && r <= '9':
			continue
		default:
			return false
		}
	}
	return true
}
