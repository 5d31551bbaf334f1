package glossify

import "strings"

// selectCandidates decides which token segments become replacements.
// Eligibility requires a single whitespace-free display gloss and, when
// onlyNouns is set, an explicit noun marker or a passing noun heuristic.
// From k eligible tokens it samples max(1, floor(k*ratio)) distinct
// indices with a bounded number of random draws; when the draw budget is
// exhausted it may return fewer (best-effort, not exact-count).
func (e *Engine) selectCandidates(segments []Segment) map[int]bool {
	cfg := e.Config()
	if cfg.Ratio <= 0 {
		return nil
	}

	var eligible []int
	for i, s := range segments {
		if s.Kind != SegmentToken {
			continue
		}
		if tokenEligible(s, cfg.OnlyNouns) {
			eligible = append(eligible, i)
		}
	}

	k := len(eligible)
	if k == 0 {
		return nil
	}

	target := int(float64(k) * cfg.Ratio)
	if target < 1 {
		target = 1
	}
	if target > k {
		target = k
	}

	selected := make(map[int]bool, target)
	for attempts := 0; len(selected) < target && attempts < 3*k; attempts++ {
		selected[eligible[e.intn(k)]] = true
	}
	return selected
}

// tokenEligible applies the display-form filter and the optional
// noun-likeness filter.
func tokenEligible(s Segment, onlyNouns bool) bool {
	gloss := s.Entry.ShortestSense()
	if gloss == "" || strings.ContainsAny(gloss, " \t\n") {
		return false
	}
	if !onlyNouns {
		return true
	}
	return s.Entry.IsNoun() || looksLikeNoun(gloss)
}

// nounSuffixes lists common noun-forming final morphemes.
var nounSuffixes = []string{
	"tion", "sion", "ment", "ness", "ity", "ism", "ance", "ence",
	"ship", "hood", "age", "ure", "ist", "ogy", "graphy",
}

// concreteNouns is a fixed set of short everyday nouns the suffix check
// would otherwise miss.
var concreteNouns = map[string]bool{
	"man": true, "woman": true, "person": true, "child": true,
	"day": true, "year": true, "time": true, "way": true,
	"water": true, "fire": true, "hand": true, "eye": true,
	"head": true, "heart": true, "door": true, "book": true,
	"car": true, "city": true, "road": true, "house": true,
	"tree": true, "sky": true, "sun": true, "moon": true,
	"star": true, "food": true, "rice": true, "tea": true,
	"king": true, "war": true, "law": true, "god": true,
	"sea": true, "wind": true, "rain": true, "snow": true,
	"mountain": true, "river": true, "bird": true, "fish": true,
	"horse": true, "dog": true, "cat": true,
}

// looksLikeNoun is the heuristic used when an entry carries no explicit
// part-of-speech marker. Infinitives ("to ...") are rejected outright.
// Single-word glosses pass on membership in the concrete-noun set (checked
// first, so set entries like "king" survive the gerund filter), a
// noun-forming suffix, or length >= 4 without a hyphen; gerund-looking
// forms are otherwise rejected. Multi-word glosses pass unless the first
// word is the infinitive marker.
func looksLikeNoun(gloss string) bool {
	s := strings.ToLower(strings.TrimSpace(gloss))
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "to ") {
		return false
	}
	if strings.ContainsRune(s, ' ') {
		return true
	}
	if concreteNouns[s] {
		return true
	}
	if strings.HasSuffix(s, "ing") {
		return false
	}
	for _, suffix := range nounSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return len([]rune(s)) >= 4 && !strings.Contains(s, "-")
}
