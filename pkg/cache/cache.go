// Package cache provides pluggable byte caching for computed artifacts,
// primarily Graphviz layout results.
//
// Backends:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: Redis-backed, for multi-instance server deployments
//   - NullCache: disabled caching
//
// Keys are generated through a Keyer so CLI and server agree on the cache
// layout; ScopedKeyer adds a prefix for namespace isolation. Wrap any
// backend with Instrumented to emit observability cache hooks.
package cache

import (
	"context"
	"time"

	"github.com/graphkit/marquee/pkg/observability"
)

// Cache is the interface all backends implement.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs that change a layout result.
type LayoutKeyOpts struct {
	Engine string  // graphviz layout engine, e.g. "fdp"
	Width  float64 // target frame width
	Height float64 // target frame height
}

// Keyer generates cache keys. Implementations must be deterministic:
// equal inputs produce equal keys across processes.
type Keyer interface {
	// GraphKey generates a key for a stored graph's serialized form.
	GraphKey(id string) string

	// LayoutKey generates a key for a layout result, parameterized by the
	// graph content hash and the layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GraphKey generates a key for a stored graph.
func (k *DefaultKeyer) GraphKey(id string) string {
	return hashKey("graph", id)
}

// LayoutKey generates a key for a layout result.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts.Engine, opts.Width, opts.Height)
}

// =============================================================================
// Instrumented Wrapper
// =============================================================================

// instrumented forwards to an inner cache and reports hits, misses, and
// writes to the registered observability hooks.
type instrumented struct {
	inner   Cache
	keyType string
}

// Instrumented wraps a cache so its operations emit observability cache
// hooks under the given key type (e.g. "layout").
func Instrumented(inner Cache, keyType string) Cache {
	return &instrumented{inner: inner, keyType: keyType}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error { return c.inner.Close() }

// Ensure instrumented implements Cache.
var _ Cache = (*instrumented)(nil)
