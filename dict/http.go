package dict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPFetcher retrieves dictionary artifacts over HTTP. Bucket locators
// are paths resolved against the base URL.
type HTTPFetcher struct {
	BaseURL   string
	IndexPath string       // defaults to "index.json"
	Client    *http.Client // defaults to a client with a 10s timeout
	UserAgent string       // User-Agent header, if set
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (f *HTTPFetcher) get(ctx context.Context, path string, v any) error {
	u, err := url.JoinPath(f.BaseURL, path)
	if err != nil {
		return &LoadError{Resource: path, Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &LoadError{Resource: path, Cause: err}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return &LoadError{Resource: path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &LoadError{Resource: path, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &LoadError{Resource: path, Cause: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &LoadError{Resource: path, Cause: err}
	}
	return nil
}

// FetchIndex retrieves and decodes the index artifact.
func (f *HTTPFetcher) FetchIndex(ctx context.Context) (*Index, error) {
	path := f.IndexPath
	if path == "" {
		path = "index.json"
	}
	var idx Index
	if err := f.get(ctx, path, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// FetchBucket retrieves and decodes one bucket artifact.
func (f *HTTPFetcher) FetchBucket(ctx context.Context, locator string) (*Bucket, error) {
	var b Bucket
	if err := f.get(ctx, locator, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
