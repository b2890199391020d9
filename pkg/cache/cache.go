// Package cache stores computed layouts and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for the preview server when several instances share work, and
// [NullCache] when caching is disabled. Keys come from a [Keyer] so callers
// never build key strings by hand.
//
// Entries are content addressed: a layout key hashes the manifest records
// together with every option that influences placement, so a changed
// manifest can never be served a stale layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Default expiries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
	ContentTTL  = time.Hour
	SessionTTL  = 24 * time.Hour
)

// LayoutKeyOpts holds the options that change a computed layout.
type LayoutKeyOpts struct {
	Viewport      float64 `json:"viewport"`
	Small         float64 `json:"small"`
	Medium        float64 `json:"medium"`
	Gutter        float64 `json:"gutter"`
	FallbackRatio float64 `json:"fallback_ratio"`
	Eager         bool    `json:"eager"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Focus  int    `json:"focus"`
	Script bool   `json:"script,omitempty"`
	Action string `json:"action,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(recordsHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	ContentKey(collection, digest string) string
	SessionKey(id string) string
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recordsHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

func (DefaultKeyer) ContentKey(collection, digest string) string {
	return hashKey("content", collection, digest)
}

// SessionKey is not hashed so sessions stay inspectable in a shared store.
func (DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}
