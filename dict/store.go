package dict

import (
	"context"
	"sort"
	"sync"
)

// Store owns the merged dictionary lookup map and the set of loaded
// buckets. Both only ever grow: a bucket is fetched at most once, and a
// failed fetch still marks it loaded so it is never retried.
//
// A Store is created once per processing context and passed by handle to
// the components that need lookups; there is no package-global state.
type Store struct {
	fetcher   Fetcher
	indexOnce sync.Once

	mu         sync.RWMutex
	index      *Index
	groupWidth int
	loaded     map[int]bool
	entries    map[string]Entry
	maxLen     int
}

// NewStore creates a Store backed by the given fetcher. A nil fetcher
// yields a store that loads nothing and matches nothing.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher:    fetcher,
		groupWidth: DefaultGroupWidth,
		loaded:     make(map[int]bool),
		entries:    make(map[string]Entry),
	}
}

// EnsureIndex loads the dictionary index at most once. On failure the
// store substitutes an empty index, so callers never see an error; the
// dictionary simply has nothing loadable. Concurrent callers block until
// the index is in place, so it is never observed unassigned.
func (s *Store) EnsureIndex(ctx context.Context) {
	s.indexOnce.Do(func() {
		var idx *Index
		if s.fetcher != nil {
			if got, err := s.fetcher.FetchIndex(ctx); err == nil && got != nil {
				idx = got
			}
		}
		if idx == nil {
			idx = &Index{GroupWidth: DefaultGroupWidth}
		}
		if idx.Groups == nil {
			idx.Groups = map[int]GroupMeta{}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.index = idx
		if idx.GroupWidth > 0 {
			s.groupWidth = idx.GroupWidth
		}
	})
}

// EnsureBucket loads one bucket at most once. The bucket is marked loaded
// before the fetch, so a failed fetch is never retried.
func (s *Store) EnsureBucket(ctx context.Context, id int) {
	s.EnsureIndex(ctx)

	meta, ok := s.claimBucket(id)
	if !ok || s.fetcher == nil {
		return
	}

	b, err := s.fetcher.FetchBucket(ctx, meta.Locator)
	if err != nil || b == nil {
		return
	}
	s.merge(b)
}

// claimBucket marks a bucket loaded and returns its index metadata. ok is
// false when the bucket was already claimed or the index has no group for
// it; either way the claim sticks.
func (s *Store) claimBucket(id int) (GroupMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[id] {
		return GroupMeta{}, false
	}
	s.loaded[id] = true
	meta, ok := s.index.Groups[id]
	return meta, ok
}

// merge folds a bucket's entries into the global lookup map in one step.
func (s *Store) merge(b *Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, be := range b.Entries {
		if be.Headword == "" || !be.Entry.Valid() {
			continue
		}
		s.entries[be.Headword] = be.Entry
		if n := len([]rune(be.Headword)); n > s.maxLen {
			s.maxLen = n
		}
	}
	if b.MaxHeadwordLength > s.maxLen {
		s.maxLen = b.MaxHeadwordLength
	}
}

// EnsureLoadedFor loads every bucket needed to match words starting at any
// CJK character of the run. Multiple missing buckets are fetched
// concurrently.
func (s *Store) EnsureLoadedFor(ctx context.Context, text string) {
	s.EnsureIndex(ctx)

	need := make(map[int]bool)
	for _, r := range text {
		if id, ok := s.BucketIDFor(r); ok {
			need[id] = true
		}
	}

	s.mu.RLock()
	var missing []int
	for id := range need {
		if !s.loaded[id] {
			missing = append(missing, id)
		}
	}
	s.mu.RUnlock()

	if len(missing) < 2 {
		for _, id := range missing {
			s.EnsureBucket(ctx, id)
		}
		return
	}

	var wg sync.WaitGroup
	for _, id := range missing {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.EnsureBucket(ctx, id)
		}(id)
	}
	wg.Wait()
}

// BucketIDFor maps a character to its bucket using the store's group
// width. Codepoints outside the CJK range have no bucket.
func (s *Store) BucketIDFor(r rune) (int, bool) {
	s.mu.RLock()
	width := s.groupWidth
	s.mu.RUnlock()
	return bucketID(r, width)
}

// Lookup returns the entry for a headword, if loaded.
func (s *Store) Lookup(word string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[word]
	return e, ok
}

// MaxHeadwordLength returns the longest headword length across all loaded
// buckets. Zero when nothing is loaded.
func (s *Store) MaxHeadwordLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLen
}

// Len returns the number of merged entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LoadedBuckets returns the ids of all buckets marked loaded, sorted.
func (s *Store) LoadedBuckets() []int {
	s.mu.RLock()
	ids := make([]int, 0, len(s.loaded))
	for id := range s.loaded {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Ints(ids)
	return ids
}

// GroupWidth returns the bucket codepoint width in effect.
func (s *Store) GroupWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupWidth
}
