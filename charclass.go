package glossify

import (
	"unicode"

	"github.com/ZaguanLabs/glossify/dict"
)

// CharClass is the neighbor classification used by the spacing rule.
type CharClass int

const (
	ClassOther CharClass = iota
	ClassCJK
	ClassLatin
	ClassSpace
	ClassPunct
)

// Classify assigns a rune to its spacing class. Latin letters and digits
// count as Latin-ish; CJK punctuation and fullwidth forms count as
// punctuation, not ideographs.
func Classify(r rune) CharClass {
	switch {
	case dict.IsCJK(r):
		return ClassCJK
	case unicode.IsSpace(r):
		return ClassSpace
	case r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		return ClassLatin
	case unicode.In(r, unicode.Latin):
		return ClassLatin
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return ClassPunct
	default:
		return ClassOther
	}
}

// foreignRatio returns the share of CJK runes among the non-space runes
// of a run. A run of only whitespace has ratio zero.
func foreignRatio(text string) float64 {
	var total, cjk int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if dict.IsCJK(r) {
			cjk++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cjk) / float64(total)
}
