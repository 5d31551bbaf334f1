package glossify

import "github.com/ZaguanLabs/glossify/dict"

// SegmentKind discriminates the two segment variants.
type SegmentKind int

const (
	// SegmentLiteral is a run of characters with no dictionary match.
	SegmentLiteral SegmentKind = iota
	// SegmentToken is a dictionary-matched word.
	SegmentToken
)

// Segment is one unit of a segmented text run: a literal character run or
// a dictionary-matched token. Entry is non-nil only for SegmentToken.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Entry *dict.Entry
}

// ReplacementUnit is a rendered, revertible substitution. It carries the
// exact original word, so reverting a unit restores the source text
// byte-for-byte. Spacing inserted around the gloss belongs to the unit and
// disappears with it on revert.
type ReplacementUnit struct {
	ID            string // Unique identifier (UUID)
	Original      string // The dictionary-matched word being replaced
	Gloss         string // Displayed English text (shortest sense)
	Pinyin        string // Carried into the rendered title/tooltip
	LeadingSpace  bool
	TrailingSpace bool
}

// Display returns the gloss with its computed spacing.
func (u *ReplacementUnit) Display() string {
	s := u.Gloss
	if u.LeadingSpace {
		s = " " + s
	}
	if u.TrailingSpace {
		s += " "
	}
	return s
}

// Node is one element of rendered output: plain text, or a replacement
// unit when Unit is non-nil.
type Node struct {
	Text string
	Unit *ReplacementUnit
}

// Config holds the runtime options of an Engine.
type Config struct {
	Enabled         bool     // global kill switch
	Ratio           float64  // fraction of eligible tokens replaced per run, in [0,1]
	OnlyNouns       bool     // restrict replacements to noun-like glosses
	URLBlacklist    []string // wildcard patterns suppressing whole pages
	MinRunLength    int      // minimum run length (in runes) to process
	MinForeignRatio float64  // minimum CJK share of a run, in [0,1]
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Ratio:           0.1,
		MinRunLength:    4,
		MinForeignRatio: 0.5,
	}
}

// Result is the outcome of one document processing pass.
type Result struct {
	Content       string // Transformed content (empty for in-place passes)
	RunsProcessed int    // Eligible runs that were segmented and rendered
	RunsSkipped   int    // Runs rejected by the eligibility pre-filters
	UnitsEmitted  int    // Replacement units created
}

// IgnoredTags contains HTML tags whose content is never glossed.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// EditableTags contains HTML tags that form edit-capable contexts.
var EditableTags = map[string]bool{
	"textarea": true,
	"input":    true,
	"select":   true,
	"option":   true,
}
