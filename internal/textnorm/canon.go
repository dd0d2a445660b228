// Package textnorm provides the canonicalization, tokenization, and
// fuzzy-matching primitives shared by the dictionary, entity, and
// resolution stages.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/orsinium-labs/stopwords"
)

// isJoiner reports whether r is punctuation that commonly appears inside
// names or multiword terms ("Monkey D. Luffy", "O'Brien", "Jean-Luc",
// "AT&T") and must be preserved during canonicalization.
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘',
		'-', '–', '—',
		'·', '.', '_', '/', '#', '&':
		return true
	default:
		return false
	}
}

func isSeparator(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || isJoiner(r) {
		return false
	}
	return true
}

// Canonicalize lowercases s, folds curly apostrophes and en/em dashes to
// their ASCII equivalents, preserves letters/digits/joiners, and collapses
// every other character run into a single space. It is the single
// normalization function used by both dictionary compilation and document
// scanning, so the two sides always agree on what a surface form reduces
// to.
func Canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}
	result := out.String()
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

// Token is a canonicalized word with its byte offsets in the original
// string, for span anchoring.
type Token struct {
	Text  string
	Start int
	End   int
}

// TokenizeWithOffsets splits s into canonicalized tokens while preserving
// byte offsets into the original string.
func TokenizeWithOffsets(s string) []Token {
	out := make([]Token, 0, 64)
	i := 0
	for i < len(s) {
		for i < len(s) {
			r, w := utf8.DecodeRuneInString(s[i:])
			if !isSeparator(r) {
				break
			}
			i += w
		}
		start := i
		for i < len(s) {
			r, w := utf8.DecodeRuneInString(s[i:])
			if isSeparator(r) {
				break
			}
			i += w
		}
		end := i
		if start < end {
			out = append(out, Token{Text: Canonicalize(s[start:end]), Start: start, End: end})
		}
	}
	return out
}

// en is the English stopword set used to filter tokens when building
// alias/name candidates; it is an immutable shared lexicon loaded once and
// passed by reference (spec §5 resource model).
var en = stopwords.MustGet("en")

// IsStopword reports whether w (expected already-lowercased) is an
// English stopword.
func IsStopword(w string) bool {
	return en != nil && en.Contains(w)
}

// TokenizeFiltered canonicalizes and tokenizes text on whitespace,
// dropping stopwords — used for alias-candidate extraction, not for span
// anchoring (use TokenizeWithOffsets when offsets matter).
func TokenizeFiltered(text string) []string {
	words := strings.Fields(Canonicalize(text))
	result := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" && !IsStopword(w) {
			result = append(result, w)
		}
	}
	return result
}

// Distance returns the Levenshtein edit distance between two already
// canonicalized strings, used by internal/entity to decide whether two
// surface forms should merge as aliases of the same entity.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// NearDuplicate reports whether a and b are either byte-identical, one is
// a substring of the other, or their Levenshtein distance is at most
// maxDist (spec §4.1 alias-merge rule: "Levenshtein ≤1 or substring").
func NearDuplicate(a, b string, maxDist int) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return Distance(a, b) <= maxDist
}
