package dict

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// Fetcher retrieves dictionary artifacts from their backing storage.
type Fetcher interface {
	// FetchIndex retrieves the dictionary index artifact.
	FetchIndex(ctx context.Context) (*Index, error)

	// FetchBucket retrieves one bucket artifact by its storage locator.
	FetchBucket(ctx context.Context, locator string) (*Bucket, error)
}

// FileFetcher reads dictionary artifacts from a directory. Bucket locators
// are file names relative to the directory.
type FileFetcher struct {
	Dir       string
	IndexName string // defaults to "index.json"
}

// FetchIndex reads and decodes the index file.
func (f *FileFetcher) FetchIndex(ctx context.Context) (*Index, error) {
	name := f.IndexName
	if name == "" {
		name = "index.json"
	}
	data, err := os.ReadFile(filepath.Join(f.Dir, name)) // #nosec G304 - artifact dir is caller-specified
	if err != nil {
		return nil, &LoadError{Resource: "index", Cause: err}
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &LoadError{Resource: "index", Cause: err}
	}
	return &idx, nil
}

// FetchBucket reads and decodes one bucket file.
func (f *FileFetcher) FetchBucket(ctx context.Context, locator string) (*Bucket, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, filepath.Clean(locator))) // #nosec G304
	if err != nil {
		return nil, &LoadError{Resource: "bucket " + locator, Cause: err}
	}
	var b Bucket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &LoadError{Resource: "bucket " + locator, Cause: err}
	}
	return &b, nil
}

// StaticFetcher serves artifacts held in memory. Useful for embedded
// dictionaries and for tests.
type StaticFetcher struct {
	Index   *Index
	Buckets map[string]*Bucket // keyed by locator
}

// FetchIndex returns the in-memory index.
func (f *StaticFetcher) FetchIndex(ctx context.Context) (*Index, error) {
	if f.Index == nil {
		return nil, &LoadError{Resource: "index"}
	}
	return f.Index, nil
}

// FetchBucket returns the in-memory bucket for the locator.
func (f *StaticFetcher) FetchBucket(ctx context.Context, locator string) (*Bucket, error) {
	b, ok := f.Buckets[locator]
	if !ok {
		return nil, &LoadError{Resource: "bucket " + locator}
	}
	return b, nil
}

// Verify implementations.
var (
	_ Fetcher = (*FileFetcher)(nil)
	_ Fetcher = (*StaticFetcher)(nil)
)
