// Package pipeline provides the core selection pipeline for marquee.
//
// This package implements the complete load → layout → select pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Resolve a graph from a file, the store, or an inline payload
//  2. Layout: Assign positions to unpositioned nodes (Graphviz, cached)
//  3. Select: Run rectangle hit-testing and collect matching node IDs
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    GraphFile: "graph.json",
//	    Rect:      geom.Rect{X: 0, Y: 0, W: 100, H: 100},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids := result.NodeIDs
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphkit/marquee/pkg/cache"
	"github.com/graphkit/marquee/pkg/errors"
	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/layout"
	"github.com/graphkit/marquee/pkg/selection"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultEngine is the default layout engine.
	DefaultEngine = layout.DefaultEngine

	// DefaultSizeMultiplier is the default hit-radius scale factor.
	DefaultSizeMultiplier = selection.DefaultSizeMultiplier
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the selection pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options (exactly one source must be set)
	GraphFile string       `json:"graph_file,omitempty"` // Path to a node-link JSON file
	GraphID   string       `json:"graph_id,omitempty"`   // ID of a stored graph
	Graph     *graph.Graph `json:"graph,omitempty"`      // Inline graph payload

	// Layout options
	Engine   string `json:"engine,omitempty"`   // Graphviz engine (default fdp)
	Relayout bool   `json:"relayout,omitempty"` // Recompute positions even when present

	// Select options
	Rect               geom.Rect `json:"rect"`
	SelectOnlyComplete bool      `json:"select_only_complete,omitempty"`
	NodeSizeMultiplier float64   `json:"node_size_multiplier,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded (and laid out) graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph after layout.
	GraphHash string

	// NodeIDs are the selected node IDs in graph iteration order.
	NodeIDs []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Matched    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	SelectTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout positions came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSelect(); err != nil {
		return err
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one graph source is set.
func (o *Options) ValidateForLoad() error {
	sources := 0
	if o.GraphFile != "" {
		sources++
	}
	if o.GraphID != "" {
		sources++
	}
	if o.Graph != nil {
		sources++
	}
	switch sources {
	case 0:
		return errors.New(errors.ErrCodeInvalidInput, "a graph source is required (file, ID, or inline graph)")
	case 1:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "only one graph source may be set")
	}
}

// ValidateForSelect validates the selection rectangle and scale factor.
func (o *Options) ValidateForSelect() error {
	if err := errors.ValidateRect(o.Rect); err != nil {
		return err
	}
	return errors.ValidateSizeMultiplier(o.NodeSizeMultiplier)
}

// SetDefaults sets default values for the pipeline.
func (o *Options) SetDefaults() {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.NodeSizeMultiplier == 0 {
		o.NodeSizeMultiplier = DefaultSizeMultiplier
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SelectionOptions returns the hit-test options this run uses.
func (o *Options) SelectionOptions() selection.Options {
	return selection.Options{
		SelectOnlyComplete: o.SelectOnlyComplete,
		NodeSizeMultiplier: o.NodeSizeMultiplier,
	}
}

// LayoutOptions returns the layout options this run uses.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Engine:    o.Engine,
		Overwrite: o.Relayout,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Engine: o.Engine}
}
