package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphkit/marquee/pkg/cache"
	"github.com/graphkit/marquee/pkg/errors"
	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/layout"
	"github.com/graphkit/marquee/pkg/selection"
	"github.com/graphkit/marquee/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store, and logger - it
// doesn't hold pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The store is optional; without one, GraphID sources fail.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// WithStore attaches a graph store for GraphID sources.
func (r *Runner) WithStore(st store.Store) *Runner {
	r.Store = st
	return r
}

// Execute runs the complete load → layout → select pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	r.Logger.Info("loaded graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutHit, err := r.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := graph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"engine", opts.Engine,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Select
	selectStart := time.Now()
	result.NodeIDs = r.Select(g, opts)
	result.Stats.SelectTime = time.Since(selectStart)
	result.Stats.Matched = len(result.NodeIDs)

	r.Logger.Info("ran selection",
		"rect", opts.Rect,
		"matched", result.Stats.Matched,
		"duration", result.Stats.SelectTime)

	return result, nil
}

// Load resolves the graph from whichever source the options carry.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, error) {
	switch {
	case opts.Graph != nil:
		return opts.Graph, nil

	case opts.GraphFile != "":
		g, err := graph.ReadFile(opts.GraphFile)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "load graph file")
		}
		return g, nil

	case opts.GraphID != "":
		if r.Store == nil {
			return nil, errors.New(errors.ErrCodeInternal, "no graph store configured")
		}
		rec, err := r.Store.Get(ctx, opts.GraphID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "load stored graph")
		}
		if rec == nil {
			return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", opts.GraphID)
		}
		return rec.Graph, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "a graph source is required")
	}
}

// ComputeLayout assigns positions to the graph, using the cache where
// possible. Reports whether the positions came from cache.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (bool, error) {
	hit := r.layoutCached(ctx, g, opts)
	if err := layout.ComputeCached(ctx, g, opts.LayoutOptions(), r.Cache, r.Keyer); err != nil {
		return false, err
	}
	return hit, nil
}

// layoutCached reports whether a cached layout exists for this graph and
// engine. A probe rather than a guarantee: the entry could expire between
// the probe and the read.
func (r *Runner) layoutCached(ctx context.Context, g *graph.Graph, opts Options) bool {
	data, err := graph.Marshal(g)
	if err != nil {
		return false
	}
	key := r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())
	_, ok, err := r.Cache.Get(ctx, key)
	return err == nil && ok
}

// Select runs rectangle hit-testing over the graph.
func (r *Runner) Select(g *graph.Graph, opts Options) []string {
	selOpts := opts.SelectionOptions()
	selOpts.Logger = r.Logger
	return selection.HitTest(opts.Rect, g, selOpts)
}
