package glossify

import (
	"strings"

	"github.com/google/uuid"
)

// renderSegments builds the output node sequence. Selected tokens become
// replacement units displaying the shortest sense; unselected tokens and
// literals are emitted verbatim. Spacing is computed from the character
// classes of the neighboring segments: a space is inserted before a unit
// when the preceding element ends CJK or Latin-ish, and after it when the
// following element starts CJK or Latin-ish and is not itself a selected
// replacement. Run boundaries count as space-adjacent.
func renderSegments(segments []Segment, selected map[int]bool) []Node {
	nodes := make([]Node, 0, len(segments))
	for i, s := range segments {
		if s.Kind != SegmentToken || !selected[i] {
			nodes = append(nodes, Node{Text: s.Text})
			continue
		}
		unit := &ReplacementUnit{
			ID:       uuid.NewString(),
			Original: s.Text,
			Gloss:    s.Entry.ShortestSense(),
			Pinyin:   s.Entry.Pinyin,
		}
		unit.LeadingSpace = needsLeadingSpace(segments, selected, i)
		unit.TrailingSpace = needsTrailingSpace(segments, selected, i)
		nodes = append(nodes, Node{Unit: unit})
	}
	return nodes
}

func needsLeadingSpace(segments []Segment, selected map[int]bool, i int) bool {
	if i == 0 {
		return false
	}
	prev := segments[i-1]
	// A neighbor already rendered as English counts as Latin-ish.
	if prev.Kind == SegmentToken && selected[i-1] {
		return true
	}
	c := classOfLast(prev.Text)
	return c == ClassCJK || c == ClassLatin
}

func needsTrailingSpace(segments []Segment, selected map[int]bool, i int) bool {
	if i == len(segments)-1 {
		return false
	}
	next := segments[i+1]
	// The next unit inserts its own leading space; adding one here would
	// double it.
	if next.Kind == SegmentToken && selected[i+1] {
		return false
	}
	c := classOfFirst(next.Text)
	return c == ClassCJK || c == ClassLatin
}

func classOfLast(text string) CharClass {
	runes := []rune(text)
	if len(runes) == 0 {
		return ClassSpace
	}
	return Classify(runes[len(runes)-1])
}

func classOfFirst(text string) CharClass {
	for _, r := range text {
		return Classify(r)
	}
	return ClassSpace
}

// FlattenNodes renders a node sequence to plain text, units included.
func FlattenNodes(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Unit != nil {
			b.WriteString(n.Unit.Display())
			continue
		}
		b.WriteString(n.Text)
	}
	return b.String()
}

// RevertNodes restores the original text of a node sequence exactly.
func RevertNodes(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Unit != nil {
			b.WriteString(n.Unit.Original)
			continue
		}
		b.WriteString(n.Text)
	}
	return b.String()
}
