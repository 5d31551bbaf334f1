package glossify

import "github.com/ZaguanLabs/glossify/dict"

// SegmentText splits a text run into literal spans and dictionary-matched
// tokens using greedy forward maximum matching: at each CJK character,
// substring lookups are attempted from the longest known headword length
// down to one, and the first hit wins. Non-CJK characters and unmatched
// CJK characters fold into literal segments.
//
// Segmentation never triggers bucket loads; the caller is responsible for
// ensuring the relevant buckets are loaded first. For a fixed dictionary
// state the result is a pure function of the input.
func (e *Engine) SegmentText(text string) []Segment {
	return segmentText(e.store, text)
}

func segmentText(store *dict.Store, text string) []Segment {
	runes := []rune(text)
	maxLen := store.MaxHeadwordLength()

	var segs []Segment
	var lit []rune
	flush := func() {
		if len(lit) > 0 {
			segs = append(segs, Segment{Kind: SegmentLiteral, Text: string(lit)})
			lit = lit[:0]
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		if !dict.IsCJK(r) {
			lit = append(lit, r)
			i++
			continue
		}

		limit := maxLen
		if rem := len(runes) - i; rem < limit {
			limit = rem
		}

		matched := false
		for l := limit; l >= 1; l-- {
			word := string(runes[i : i+l])
			if entry, ok := store.Lookup(word); ok {
				flush()
				e := entry
				segs = append(segs, Segment{Kind: SegmentToken, Text: word, Entry: &e})
				i += l
				matched = true
				break
			}
		}
		if !matched {
			lit = append(lit, r)
			i++
		}
	}
	flush()
	return segs
}
