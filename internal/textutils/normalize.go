// Package textutils normalizes free-form Spanish text for description
// matching.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinWordLength is the shortest token considered significant.
const MinWordLength = 3

// RemoveAccents strips combining marks: "café" -> "cafe", "ñandú" -> "nandu".
func RemoveAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Normalize lowercases, strips accents and trims text. Normalize is
// idempotent.
func Normalize(text string) string {
	return strings.TrimSpace(RemoveAccents(strings.ToLower(text)))
}

// ExtractSignificantWords returns the distinct alphabetic words of text that
// are not stopwords and have at least MinWordLength letters, in order of
// first appearance. Tokens glued to digits ("pizza2000") are not words.
// Diminutives are kept as written.
func ExtractSignificantWords(text string) []string {
	tokens := strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})

	seen := make(map[string]struct{}, len(tokens))
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isASCIILower(tok) || len(tok) < MinWordLength || IsStopword(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		words = append(words, tok)
	}
	return words
}

// CommonWords returns the words of a that also appear in b, in a's order.
func CommonWords(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	var common []string
	for _, w := range a {
		if _, ok := set[w]; ok {
			common = append(common, w)
		}
	}
	return common
}

func isASCIILower(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
