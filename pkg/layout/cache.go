package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/graphkit/marquee/pkg/cache"
	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/graph"
)

// DefaultTTL is how long cached layout results are kept.
const DefaultTTL = 24 * time.Hour

// ComputeCached is Compute with a cache in front of the Graphviz run.
// The cache key covers the graph content and the engine, so editing the
// graph or switching engines recomputes.
func ComputeCached(ctx context.Context, g *graph.Graph, opts Options, c cache.Cache, keyer cache.Keyer) error {
	if g == nil || g.Len() == 0 {
		return nil
	}
	if !opts.Overwrite && positioned(g) {
		return nil
	}
	if c == nil {
		return Compute(ctx, g, opts)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}

	engine := opts.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	data, err := graph.Marshal(g)
	if err != nil {
		return err
	}
	key := keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{Engine: engine})

	if cached, ok, err := c.Get(ctx, key); err == nil && ok {
		var positions map[string]geom.Point
		if err := json.Unmarshal(cached, &positions); err == nil {
			apply(g, positions, opts.Overwrite)
			return nil
		}
		// Corrupt entry, fall through to recompute.
	}

	positions, err := compute(ctx, g, opts)
	if err != nil {
		return err
	}
	apply(g, positions, opts.Overwrite)

	if encoded, err := json.Marshal(positions); err == nil {
		// Cache write failures don't fail the layout.
		_ = c.Set(ctx, key, encoded, DefaultTTL)
	}
	return nil
}
