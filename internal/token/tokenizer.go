// Package token splits raw query text into the normalized tokens the rest
// of the query pipeline operates on.
package token

import "strings"

// Token is a normalized text fragment extracted from a query, with an
// optional set of user-requested qualifier strings. Immutable for the life
// of a query.
type Token struct {
	// Text is the lowercased, punctuation-stripped token body.
	Text string

	// Qualifiers holds the qualifier aliases the user requested for this
	// token (e.g. "title" in "title:hello"), or nil if the token carried
	// no qualifier prefix.
	Qualifiers []string
}

// defaultStrip is the default set of punctuation runes stripped from a
// token's text after qualifier extraction.
const defaultStrip = "!\"#$%&'()*+,-./;<=>?@[\\]^_`{|}~"

// Config controls tokenizer behavior. The zero value uses defaultStrip.
type Config struct {
	// Strip lists the runes removed from each token's text. Empty means
	// defaultStrip.
	Strip string
}

// Tokenize splits raw query text into an ordered sequence of tokens using
// the default configuration.
func Tokenize(query string) []Token {
	return Config{}.Tokenize(query)
}

// Tokenize splits raw query text into an ordered sequence of tokens.
//
// Rules:
//   - split on whitespace
//   - lowercase
//   - strip configured punctuation
//   - a token of the form "x:y" yields text "y" with qualifiers ["x"]
//   - "x,y:z" yields text "z" with qualifiers ["x", "y"]
//   - empty tokens (after stripping) are dropped
func (c Config) Tokenize(query string) []Token {
	strip := c.Strip
	if strip == "" {
		strip = defaultStrip
	}

	fields := strings.Fields(query)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		text, quals := splitQualifiers(lower)
		text = stripRunes(text, strip)
		if text == "" {
			continue
		}
		tokens = append(tokens, Token{Text: text, Qualifiers: quals})
	}
	return tokens
}

// splitQualifiers extracts a leading "q1,q2:" qualifier prefix from a
// lowercased field, if present.
func splitQualifiers(field string) (text string, qualifiers []string) {
	idx := strings.IndexByte(field, ':')
	if idx < 0 {
		return field, nil
	}

	left, right := field[:idx], field[idx+1:]
	if left == "" {
		// A bare leading colon carries no qualifier.
		return right, nil
	}

	parts := strings.Split(left, ",")
	qualifiers = make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			qualifiers = append(qualifiers, p)
		}
	}
	if len(qualifiers) == 0 {
		return right, nil
	}
	return right, qualifiers
}

// stripRunes removes every rune in cutset from s.
func stripRunes(s, cutset string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cutset, r) {
			return -1
		}
		return r
	}, s)
}
