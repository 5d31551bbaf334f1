package glossify

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/ZaguanLabs/glossify/dict"
)

// testStore builds a loaded store from headword/entry pairs.
func testStore(t *testing.T, entries map[string]dict.Entry) *dict.Store {
	t.Helper()
	groups := map[int]dict.GroupMeta{}
	buckets := map[string]*dict.Bucket{}
	for hw, e := range entries {
		id, ok := dict.BucketID([]rune(hw)[0])
		if !ok {
			t.Fatalf("headword %q is not CJK-leading", hw)
		}
		loc := fmt.Sprintf("bucket-%d.json", id)
		b := buckets[loc]
		if b == nil {
			b = &dict.Bucket{}
			buckets[loc] = b
			groups[id] = dict.GroupMeta{Locator: loc}
		}
		b.Entries = append(b.Entries, dict.BucketEntry{Headword: hw, Entry: e})
		if n := len([]rune(hw)); n > b.MaxHeadwordLength {
			b.MaxHeadwordLength = n
		}
	}
	return dict.NewStore(&dict.StaticFetcher{
		Index:   &dict.Index{GroupWidth: dict.DefaultGroupWidth, Groups: groups},
		Buckets: buckets,
	})
}

// loadedStore additionally loads every bucket needed for the given text.
func loadedStore(t *testing.T, entries map[string]dict.Entry, texts ...string) *dict.Store {
	t.Helper()
	store := testStore(t, entries)
	for _, text := range texts {
		store.EnsureLoadedFor(context.Background(), text)
	}
	return store
}

func kinds(segs []Segment) []SegmentKind {
	out := make([]SegmentKind, len(segs))
	for i, s := range segs {
		out[i] = s.Kind
	}
	return out
}

func texts(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func TestSegmentText_Example(t *testing.T) {
	store := loadedStore(t, map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}},
		"学习": {Senses: []string{"study", "learn"}},
	}, "你好学习")

	segs := segmentText(store, "你好学习")

	if want := []string{"你好", "学习"}; !reflect.DeepEqual(texts(segs), want) {
		t.Fatalf("texts = %v, want %v", texts(segs), want)
	}
	for i, s := range segs {
		if s.Kind != SegmentToken {
			t.Errorf("segment %d: kind = %v, want token", i, s.Kind)
		}
		if s.Entry == nil {
			t.Errorf("segment %d: nil entry", i)
		}
	}
}

func TestSegmentText_LongestMatchWins(t *testing.T) {
	store := loadedStore(t, map[string]dict.Entry{
		"中国":  {Senses: []string{"China"}},
		"中国人": {Senses: []string{"Chinese"}},
		"人":   {Senses: []string{"person"}},
	}, "中国人")

	segs := segmentText(store, "中国人")

	if len(segs) != 1 || segs[0].Text != "中国人" {
		t.Fatalf("segments = %v, want single 中国人", texts(segs))
	}
}

func TestSegmentText_Deterministic(t *testing.T) {
	store := loadedStore(t, map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}},
	}, "你好abc你好")

	first := segmentText(store, "你好abc你好")
	for i := 0; i < 5; i++ {
		again := segmentText(store, "你好abc你好")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("segmentation not deterministic: %v vs %v", first, again)
		}
	}
}

func TestSegmentText_MixedScript(t *testing.T) {
	store := loadedStore(t, map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}},
	}, "你好")

	segs := segmentText(store, "abc 你好, def")

	want := []string{"abc ", "你好", ", def"}
	if !reflect.DeepEqual(texts(segs), want) {
		t.Fatalf("texts = %v, want %v", texts(segs), want)
	}
	if segs[0].Kind != SegmentLiteral || segs[1].Kind != SegmentToken || segs[2].Kind != SegmentLiteral {
		t.Errorf("kinds = %v", kinds(segs))
	}
}

func TestSegmentText_UnknownCJKFoldsIntoLiteral(t *testing.T) {
	store := loadedStore(t, map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}},
	}, "你好")

	segs := segmentText(store, "天地你好天地")

	want := []string{"天地", "你好", "天地"}
	if !reflect.DeepEqual(texts(segs), want) {
		t.Fatalf("texts = %v, want %v", texts(segs), want)
	}
}

func TestSegmentText_EmptyDictionary(t *testing.T) {
	store := dict.NewStore(nil)
	store.EnsureLoadedFor(context.Background(), "你好学习")

	segs := segmentText(store, "你好学习")
	if len(segs) != 1 || segs[0].Kind != SegmentLiteral || segs[0].Text != "你好学习" {
		t.Fatalf("segments = %+v, want single literal", segs)
	}
}

func TestSegmentText_UnloadedBucketFallsBack(t *testing.T) {
	store := testStore(t, map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}},
	})
	// No EnsureLoadedFor: the segmenter itself never triggers loads,
	// but MaxHeadwordLength is zero so everything is literal.
	segs := segmentText(store, "你好")
	if len(segs) != 1 || segs[0].Kind != SegmentLiteral {
		t.Fatalf("segments = %+v, want single literal before load", segs)
	}
}

func TestSegmentText_RoundTripText(t *testing.T) {
	store := loadedStore(t, map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}},
		"学习": {Senses: []string{"study"}},
	}, "你好学习")

	for _, input := range []string{"", "abc", "你好学习", "a你好b学习c", "天你好地"} {
		segs := segmentText(store, input)
		var got string
		for _, s := range segs {
			got += s.Text
		}
		if got != input {
			t.Errorf("segments of %q reassemble to %q", input, got)
		}
	}
}

func BenchmarkSegmentText(b *testing.B) {
	store := dict.NewStore(&dict.StaticFetcher{
		Index: &dict.Index{GroupWidth: dict.DefaultGroupWidth, Groups: map[int]dict.GroupMeta{
			0: {Locator: "b0"},
		}},
		Buckets: map[string]*dict.Bucket{
			"b0": {MaxHeadwordLength: 2, Entries: []dict.BucketEntry{
				{Headword: "你好", Entry: dict.Entry{Senses: []string{"hello"}}},
				{Headword: "世界", Entry: dict.Entry{Senses: []string{"world"}}},
			}},
		},
	})
	store.EnsureLoadedFor(context.Background(), "你好世界")

	var text string
	for i := 0; i < 50; i++ {
		text += "你好世界 and some latin text 天地"
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		segmentText(store, text)
	}
}
