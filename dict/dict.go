// Package dict implements the paginated, lazily loaded gloss dictionary.
//
// The dictionary is partitioned into buckets keyed by fixed-width ranges of
// leading-character codepoints. Buckets are fetched on demand through a
// Fetcher and merged into a single process-wide lookup map that only ever
// grows. A bucket that fails to load is marked loaded anyway so it is never
// retried; the engine simply matches fewer words.
package dict

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CJK codepoint range eligible for dictionary matching.
const (
	CJKRangeStart rune = 0x4E00
	CJKRangeEnd   rune = 0x9FFF
)

// DefaultGroupWidth is the codepoint width of one dictionary bucket.
// The index artifact may override it.
const DefaultGroupWidth = 512

// Tag classifies a dictionary entry by register.
type Tag string

const (
	TagAcademic Tag = "academic"
	TagCommon   Tag = "common"
	TagOther    Tag = "other"
)

// Entry is one dictionary entry. Immutable once loaded.
type Entry struct {
	Senses       []string `json:"senses"`
	Pinyin       string   `json:"pinyin"`
	Tag          Tag      `json:"tag"`
	PartOfSpeech string   `json:"partOfSpeech,omitempty"`
}

// ShortestSense returns the shortest sense, with ties broken by list order.
// It is the display form used when the entry replaces a word.
func (e *Entry) ShortestSense() string {
	best := ""
	for _, s := range e.Senses {
		if best == "" || len(s) < len(best) {
			best = s
		}
	}
	return best
}

// IsNoun reports whether the entry carries an explicit noun marker.
func (e *Entry) IsNoun() bool {
	return e.PartOfSpeech == "noun"
}

// Valid reports whether the entry passes structural validation.
// Entries with an empty sense list are dropped during merge.
func (e *Entry) Valid() bool {
	if len(e.Senses) == 0 {
		return false
	}
	for _, s := range e.Senses {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

// GroupMeta describes one bucket in the index artifact.
type GroupMeta struct {
	Locator           string `json:"locator"`
	EntryCount        int    `json:"entryCount"`
	MaxHeadwordLength int    `json:"maxHeadwordLength"`
}

// Index is the process-wide dictionary metadata artifact.
type Index struct {
	GroupWidth int               `json:"groupWidth"`
	Groups     map[int]GroupMeta `json:"groups"`
}

// Bucket is one dictionary partition artifact.
type Bucket struct {
	MaxHeadwordLength int           `json:"maxHeadwordLength"`
	Entries           []BucketEntry `json:"entries"`
}

// BucketEntry is a single headword/entry pair. On the wire it is the
// two-element JSON array ["headword", {entry}].
type BucketEntry struct {
	Headword string
	Entry    Entry
}

// UnmarshalJSON decodes the ["headword", {entry}] pair form.
func (be *BucketEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("bucket entry: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &be.Headword); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &be.Entry)
}

// MarshalJSON encodes the pair form, matching UnmarshalJSON.
func (be BucketEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{be.Headword, be.Entry})
}

// IsCJK reports whether r falls in the matchable ideograph range.
func IsCJK(r rune) bool {
	return r >= CJKRangeStart && r <= CJKRangeEnd
}

// BucketID maps a leading character to its bucket using the default width.
// Codepoints outside the CJK range have no bucket.
func BucketID(r rune) (int, bool) {
	return bucketID(r, DefaultGroupWidth)
}

func bucketID(r rune, width int) (int, bool) {
	if !IsCJK(r) || width <= 0 {
		return 0, false
	}
	return int(r-CJKRangeStart) / width, true
}
