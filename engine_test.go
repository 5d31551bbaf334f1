package glossify

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ZaguanLabs/glossify/dict"
)

func sampleEntries() map[string]dict.Entry {
	return map[string]dict.Entry{
		"你好": {Senses: []string{"hello"}, Pinyin: "nǐ hǎo"},
		"学习": {Senses: []string{"study", "learn"}},
	}
}

func TestGlossRun(t *testing.T) {
	store := testStore(t, sampleEntries())
	e := NewEngine(store, WithRatio(1.0), WithRandSource(rand.NewSource(1)))

	nodes, err := e.GlossRun(context.Background(), "你好学习")
	if err != nil {
		t.Fatalf("GlossRun: %v", err)
	}
	if got := RevertNodes(nodes); got != "你好学习" {
		t.Errorf("RevertNodes = %q, want original text back", got)
	}
	units := 0
	for _, n := range nodes {
		if n.Unit != nil {
			units++
		}
	}
	if units == 0 {
		t.Error("ratio 1.0 should emit at least one unit")
	}
}

func TestGlossRun_ZeroRatioUnchanged(t *testing.T) {
	store := testStore(t, sampleEntries())
	e := NewEngine(store, WithRatio(0))

	nodes, err := e.GlossRun(context.Background(), "abc你好")
	if err != nil {
		t.Fatalf("GlossRun: %v", err)
	}
	if got := FlattenNodes(nodes); got != "abc你好" {
		t.Errorf("FlattenNodes = %q, want input unchanged", got)
	}
}

func TestGlossRun_CancelledContext(t *testing.T) {
	store := testStore(t, sampleEntries())
	e := NewEngine(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.GlossRun(ctx, "你好学习"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestGlossRun_LoadsBucketsOnDemand(t *testing.T) {
	store := testStore(t, sampleEntries())
	e := NewEngine(store)

	if got := len(store.LoadedBuckets()); got != 0 {
		t.Fatalf("loaded buckets before first run = %d, want 0", got)
	}
	if _, err := e.GlossRun(context.Background(), "你好学习"); err != nil {
		t.Fatalf("GlossRun: %v", err)
	}
	// 你/习 share group 0; 好 and 学 each mark their own group.
	if got := len(store.LoadedBuckets()); got != 3 {
		t.Errorf("loaded buckets = %d, want 3", got)
	}
}

func TestRunEligible(t *testing.T) {
	e := NewEngine(dict.NewStore(nil))

	tests := []struct {
		text string
		want bool
	}{
		{"你好学习", true},
		{"你好", false},         // below minimum run length
		{"abcdefgh", false},   // no CJK at all
		{"abcdefgh你", false},  // CJK share below threshold
		{"你好学习 abc", true},    // share 4/7 clears the default 0.5
		{"   你好学习   ", true}, // spaces excluded from the share
		{"", false},
	}
	for _, tt := range tests {
		if got := e.RunEligible(tt.text); got != tt.want {
			t.Errorf("RunEligible(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRelax(t *testing.T) {
	e := NewEngine(dict.NewStore(nil))

	if e.RunEligible("你") {
		t.Fatal("single rune should be ineligible under defaults")
	}
	e.Relax(0)
	if !e.RunEligible("你") {
		t.Error("single CJK rune should be eligible after Relax(0)")
	}

	cfg := e.Config()
	if cfg.MinRunLength != 1 {
		t.Errorf("MinRunLength = %d, want 1", cfg.MinRunLength)
	}
	if cfg.MinForeignRatio != 0 {
		t.Errorf("MinForeignRatio = %v, want 0", cfg.MinForeignRatio)
	}

	e.Relax(2.5)
	if got := e.Config().MinForeignRatio; got != 1 {
		t.Errorf("MinForeignRatio = %v, want clamped to 1", got)
	}
}

func TestSetRatio_Clamped(t *testing.T) {
	e := NewEngine(dict.NewStore(nil))

	e.SetRatio(1.5)
	if got := e.Config().Ratio; got != 1 {
		t.Errorf("Ratio = %v, want 1", got)
	}
	e.SetRatio(-0.2)
	if got := e.Config().Ratio; got != 0 {
		t.Errorf("Ratio = %v, want 0", got)
	}
}

func TestSetEnabled(t *testing.T) {
	e := NewEngine(dict.NewStore(nil))
	if !e.Enabled() {
		t.Fatal("engine should default to enabled")
	}
	e.SetEnabled(false)
	if e.Enabled() {
		t.Error("SetEnabled(false) did not stick")
	}
}

func TestURLBlocked(t *testing.T) {
	e := NewEngine(dict.NewStore(nil), WithURLBlacklist([]string{"*.bank.com/*", "https://mail.example.com/*"}))

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.bank.com/login", true},
		{"https://mail.example.com/inbox", true},
		{"https://news.example.com/", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := e.URLBlocked(tt.url); got != tt.want {
			t.Errorf("URLBlocked(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	store := testStore(t, sampleEntries())
	e := NewEngine(store, WithRatio(1.0))

	if _, err := e.GlossRun(context.Background(), "你好学习"); err != nil {
		t.Fatalf("GlossRun: %v", err)
	}

	s := e.Stats()
	if s.RunsGlossed != 1 {
		t.Errorf("RunsGlossed = %d, want 1", s.RunsGlossed)
	}
	if s.UnitsEmitted == 0 {
		t.Error("UnitsEmitted should be positive after a ratio-1 run")
	}
	if s.DictionaryEntries != 2 {
		t.Errorf("DictionaryEntries = %d, want 2", s.DictionaryEntries)
	}
	if s.Ratio != 1.0 {
		t.Errorf("Ratio = %v, want 1.0", s.Ratio)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enabled {
		t.Error("Enabled should default to true")
	}
	if cfg.Ratio != 0.1 {
		t.Errorf("Ratio = %v, want 0.1", cfg.Ratio)
	}
	if cfg.MinRunLength != 4 {
		t.Errorf("MinRunLength = %d, want 4", cfg.MinRunLength)
	}
	if cfg.MinForeignRatio != 0.5 {
		t.Errorf("MinForeignRatio = %v, want 0.5", cfg.MinForeignRatio)
	}
}
