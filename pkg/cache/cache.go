// Package cache stores simulation results so repeated runs are instant.
//
// Heights are a pure function of the jet pattern, the rock count and the
// simulation mode, which makes them ideal cache entries: they never go
// stale. Three backends implement [Cache]:
//   - [FileCache]: JSON files under the user's cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance for the API server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer], so callers never build key strings by
// hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.HeightKey(cache.Hash([]byte(pattern)), cache.HeightKeyOpts{
//	    Rocks: 2022,
//	    Mode:  "exact",
//	})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLHeight is how long a computed height is kept. Results never change,
// the TTL only bounds disk and memory usage.
const TTLHeight = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as hit == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache and returns how many
	// were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// HeightKey returns the key for a height computed from the pattern
	// with the given hash.
	HeightKey(patternHash string, opts HeightKeyOpts) string
}

// HeightKeyOpts are the run parameters that influence a cached height.
type HeightKeyOpts struct {
	Rocks        int64  `json:"rocks"`
	Mode         string `json:"mode"`
	SurfaceDepth int    `json:"surface_depth,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HeightKey hashes the pattern hash together with every option.
func (DefaultKeyer) HeightKey(patternHash string, opts HeightKeyOpts) string {
	return hashKey("height", patternHash, opts)
}

var _ Keyer = DefaultKeyer{}
