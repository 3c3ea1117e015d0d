package ingest

import "strings"

// phoneticCode computes a Soundex-style code for word: a letter followed
// by three digits grouping phonetically similar consonants, used to bucket
// tokens into similarity classes. Hand-rolled: no available library
// offers phonetic encoding.
func phoneticCode(word string) string {
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return ""
	}

	letters := []rune(word)
	var code strings.Builder
	code.WriteRune(letters[0])

	lastDigit := soundexDigit(letters[0])
	for _, r := range letters[1:] {
		d := soundexDigit(r)
		if d != 0 && d != lastDigit {
			code.WriteRune('0' + rune(d))
		}
		if d != 0 || r != 'H' && r != 'W' {
			lastDigit = d
		}
		if code.Len() == 4 {
			break
		}
	}

	for code.Len() < 4 {
		code.WriteByte('0')
	}
	return code.String()
}

func soundexDigit(r rune) int {
	switch r {
	case 'B', 'F', 'P', 'V':
		return 1
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return 2
	case 'D', 'T':
		return 3
	case 'L':
		return 4
	case 'M', 'N':
		return 5
	case 'R':
		return 6
	default:
		return 0
	}
}
