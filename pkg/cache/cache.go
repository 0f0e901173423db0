// Package cache provides the byte cache used by the render pipeline.
//
// Three backends implement [Cache]:
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] stores entries as JSON files, for the CLI
//   - [RedisCache] stores entries in Redis, for servers sharing a cache
//
// Keys come from a [Keyer]. Chart keys identify a recompute pass by the hash
// of its records and its options; artifact keys identify one rendered format
// of a chart. [Instrument] wraps any Cache so that hits, misses and writes
// reach the observability cache hooks.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss;
	// errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default TTLs per entry kind.
const (
	TTLChart    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ChartKeyOpts are the recompute options that change a chart.
type ChartKeyOpts struct {
	Cause   string  `json:"cause,omitempty"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ChartKey identifies a recompute pass over the records hashed as
	// recordsHash.
	ChartKey(recordsHash string, opts ChartKeyOpts) string

	// ArtifactKey identifies one rendered format of the chart hashed as
	// chartHash.
	ArtifactKey(chartHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ChartKey implements Keyer.
func (DefaultKeyer) ChartKey(recordsHash string, opts ChartKeyOpts) string {
	return hashKey("chart", recordsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(chartHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", chartHash, opts)
}

// KeyType returns the kind of a key built by DefaultKeyer, also behind a
// ScopedKeyer prefix. Foreign keys report "other".
func KeyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "other"
	}
	head := key[:i]
	if j := strings.LastIndexByte(head, ':'); j >= 0 {
		head = head[j+1:]
	}
	switch head {
	case "chart", "artifact":
		return head
	}
	return "other"
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
