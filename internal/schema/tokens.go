package schema

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a raw dependency token.
type TokenKind int

const (
	// TokenIdent is an identifier: a field name or the "mut" marker.
	TokenIdent TokenKind = iota
	// TokenPunct is a single punctuation character such as ','.
	TokenPunct
	// TokenInvalid is anything else (digits, quotes, non-ASCII symbols).
	TokenInvalid
)

// MutKeyword marks the dependency that follows it as exclusive.
const MutKeyword = "mut"

// Token is one raw token of a dependency declaration.
type Token struct {
	Kind TokenKind
	Text string
	Pos  token.Position
}

// IsComma reports whether the token is a ',' separator.
func (t Token) IsComma() bool {
	return t.Kind == TokenPunct && t.Text == ","
}

// IsMut reports whether the token is the mutability marker.
func (t Token) IsMut() bool {
	return t.Kind == TokenIdent && t.Text == MutKeyword
}

// Tokenize splits a dependency declaration such as "source, mut cursor" into tokens.
// base is the position of the first byte of text; token columns and offsets are
// advanced from it.
func Tokenize(text string, base token.Position) []Token {
	var tokens []Token

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case unicode.IsSpace(r):
			i += size

		case isIdentStart(r):
			start := i
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if !isIdentStart(r) && !isDigit(r) {
					break
				}
				i += size
			}

			tokens = append(tokens, Token{Kind: TokenIdent, Text: text[start:i], Pos: advance(base, start)})

		case strings.ContainsRune(",;:.()[]{}*&", r):
			tokens = append(tokens, Token{Kind: TokenPunct, Text: string(r), Pos: advance(base, i)})
			i += size

		default:
			start := i
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if unicode.IsSpace(r) || isIdentStart(r) || r == ',' {
					break
				}
				i += size
			}

			tokens = append(tokens, Token{Kind: TokenInvalid, Text: text[start:i], Pos: advance(base, start)})
		}
	}

	return tokens
}

// JoinTokens renders tokens back into a declaration string, with one space
// between tokens and none before a comma.
func JoinTokens(tokens []Token) string {
	var sb strings.Builder

	for i, t := range tokens {
		if i > 0 && !t.IsComma() {
			sb.WriteString(" ")
		}

		sb.WriteString(t.Text)
	}

	return sb.String()
}

func advance(base token.Position, by int) token.Position {
	if !base.IsValid() {
		return base
	}

	base.Offset += by
	base.Column += by

	return base
}

// IsValidIdent checks if a string is a valid Go identifier. Keywords are not.
func IsValidIdent(s string) bool {
	return token.IsIdentifier(s)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}
