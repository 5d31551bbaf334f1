package glossify

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ZaguanLabs/glossify/dict"
)

// Engine is the dictionary-driven segmentation and selective-replacement
// pipeline. It owns a handle to the dictionary store and the runtime
// configuration; content processors drive it once per eligible text run.
type Engine struct {
	store *dict.Store

	mu        sync.Mutex
	cfg       Config
	blacklist *Blacklist
	rng       *rand.Rand

	runsGlossed  int
	unitsEmitted int
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithRatio sets the fraction of eligible tokens replaced per run.
func WithRatio(ratio float64) Option {
	return func(e *Engine) {
		e.cfg.Ratio = ratio
	}
}

// WithOnlyNouns restricts replacements to noun-like glosses.
func WithOnlyNouns(onlyNouns bool) Option {
	return func(e *Engine) {
		e.cfg.OnlyNouns = onlyNouns
	}
}

// WithMinRunLength sets the minimum run length eligible for processing.
func WithMinRunLength(n int) Option {
	return func(e *Engine) {
		e.cfg.MinRunLength = n
	}
}

// WithMinForeignRatio sets the minimum CJK share a run must have.
func WithMinForeignRatio(ratio float64) Option {
	return func(e *Engine) {
		e.cfg.MinForeignRatio = ratio
	}
}

// WithURLBlacklist sets the wildcard patterns suppressing whole pages.
func WithURLBlacklist(patterns []string) Option {
	return func(e *Engine) {
		e.cfg.URLBlacklist = patterns
	}
}

// WithRandSource sets the sampling source. Tests use this to make
// selection deterministic.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rng = rand.New(src)
	}
}

// NewEngine creates an Engine bound to the given dictionary store.
func NewEngine(store *dict.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		cfg:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.blacklist = CompileBlacklist(e.cfg.URLBlacklist)
	return e
}

// Store returns the engine's dictionary store handle.
func (e *Engine) Store() *dict.Store {
	return e.store
}

// GlossRun runs the full pipeline over one text run: ensure the needed
// buckets are loaded, segment, select, render. The returned nodes swap in
// for the run; RevertNodes restores it exactly. The only error returned is
// a cancelled context, which processors treat as an abort of the pass.
func (e *Engine) GlossRun(ctx context.Context, text string) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.store.EnsureLoadedFor(ctx, text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segments := segmentText(e.store, text)
	selected := e.selectCandidates(segments)
	nodes := renderSegments(segments, selected)

	e.mu.Lock()
	e.runsGlossed++
	e.unitsEmitted += len(selected)
	e.mu.Unlock()
	return nodes, nil
}

// RunEligible applies the pre-filters a text run must pass before it is
// worth segmenting: minimum rune length and minimum CJK share.
func (e *Engine) RunEligible(text string) bool {
	cfg := e.Config()
	if len([]rune(text)) < cfg.MinRunLength {
		return false
	}
	return foreignRatio(text) >= cfg.MinForeignRatio
}

// Enabled reports the global kill switch.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Enabled
}

// URLBlocked reports whether the page address matches the blacklist.
func (e *Engine) URLBlocked(url string) bool {
	e.mu.Lock()
	b := e.blacklist
	e.mu.Unlock()
	return b.Matches(url)
}

// Config returns a snapshot of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetRatio updates the replacement ratio, clamped to [0,1].
func (e *Engine) SetRatio(ratio float64) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	e.mu.Lock()
	e.cfg.Ratio = ratio
	e.mu.Unlock()
}

// SetEnabled flips the global kill switch.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.cfg.Enabled = enabled
	e.mu.Unlock()
}

// Relax lowers the eligibility gates at runtime: the CJK-share threshold
// drops to the given value (clamped to [0,1]) and the minimum run length
// drops to one. Used by the debug surface to force sparse pages through.
func (e *Engine) Relax(threshold float64) {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	e.mu.Lock()
	e.cfg.MinForeignRatio = threshold
	e.cfg.MinRunLength = 1
	e.mu.Unlock()
}

// EngineStats is a snapshot of engine and dictionary counters.
type EngineStats struct {
	RunsGlossed       int     `json:"runs_glossed"`
	UnitsEmitted      int     `json:"units_emitted"`
	LoadedBuckets     int     `json:"loaded_buckets"`
	DictionaryEntries int     `json:"dictionary_entries"`
	MaxHeadwordLength int     `json:"max_headword_length"`
	Ratio             float64 `json:"ratio"`
	OnlyNouns         bool    `json:"only_nouns"`
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	s := EngineStats{
		RunsGlossed:  e.runsGlossed,
		UnitsEmitted: e.unitsEmitted,
		Ratio:        e.cfg.Ratio,
		OnlyNouns:    e.cfg.OnlyNouns,
	}
	e.mu.Unlock()

	s.LoadedBuckets = len(e.store.LoadedBuckets())
	s.DictionaryEntries = e.store.Len()
	s.MaxHeadwordLength = e.store.MaxHeadwordLength()
	return s
}

// intn draws from the engine's sampling source.
func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}
