package dict

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFetcher retrieves dictionary artifacts stored as JSON values in
// Redis. The index lives at <prefix>index and each bucket at
// <prefix><locator>.
type RedisFetcher struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis fetcher.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "glossify:dict:")
}

const defaultRedisPrefix = "glossify:dict:"

// NewRedisFetcher creates a Redis fetcher with the given configuration.
func NewRedisFetcher(cfg RedisConfig) (*RedisFetcher, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	return &RedisFetcher{client: client, keyPrefix: prefix}, nil
}

// NewRedisFetcherFromClient creates a RedisFetcher from an existing client.
func NewRedisFetcherFromClient(client *redis.Client, keyPrefix string) *RedisFetcher {
	if keyPrefix == "" {
		keyPrefix = defaultRedisPrefix
	}
	return &RedisFetcher{client: client, keyPrefix: keyPrefix}
}

// FetchIndex retrieves and decodes the index artifact.
func (f *RedisFetcher) FetchIndex(ctx context.Context) (*Index, error) {
	data, err := f.client.Get(ctx, f.keyPrefix+"index").Bytes()
	if err != nil {
		return nil, &LoadError{Resource: "index", Cause: err}
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &LoadError{Resource: "index", Cause: err}
	}
	return &idx, nil
}

// FetchBucket retrieves and decodes one bucket artifact.
func (f *RedisFetcher) FetchBucket(ctx context.Context, locator string) (*Bucket, error) {
	data, err := f.client.Get(ctx, f.keyPrefix+locator).Bytes()
	if err != nil {
		return nil, &LoadError{Resource: "bucket " + locator, Cause: err}
	}
	var b Bucket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &LoadError{Resource: "bucket " + locator, Cause: err}
	}
	return &b, nil
}

// Close closes the Redis connection.
func (f *RedisFetcher) Close() error {
	return f.client.Close()
}

// Verify RedisFetcher implements Fetcher
var _ Fetcher = (*RedisFetcher)(nil)
