// Package layout assigns graph-space positions to nodes using Graphviz.
//
// Selection hit-testing only considers nodes with finite positions, so
// graphs loaded without coordinates run through here first. The graph is
// converted to DOT, laid out by a force-directed engine, and the computed
// pos attributes are parsed back onto the nodes.
package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/graphkit/marquee/pkg/errors"
	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/graph"
)

// DefaultEngine is the layout engine used when none is specified.
// fdp is force-directed, matching the kind of surface the selection
// overlay is built for.
const DefaultEngine = "fdp"

// Options configures layout computation.
type Options struct {
	// Engine selects the Graphviz layout engine. Empty means DefaultEngine.
	Engine string

	// Overwrite recomputes positions for nodes that already have one.
	// When false, a fully positioned graph is left untouched.
	Overwrite bool
}

var engines = map[string]graphviz.Layout{
	"dot":   graphviz.DOT,
	"neato": graphviz.NEATO,
	"fdp":   graphviz.FDP,
	"sfdp":  graphviz.SFDP,
	"circo": graphviz.CIRCO,
	"twopi": graphviz.TWOPI,
}

// Engines returns the supported engine names.
func Engines() []string {
	return []string{"circo", "dot", "fdp", "neato", "sfdp", "twopi"}
}

func engineFor(name string) (graphviz.Layout, error) {
	if name == "" {
		name = DefaultEngine
	}
	l, ok := engines[name]
	if !ok {
		return "", errors.New(errors.ErrCodeLayout, "unknown layout engine %q (supported: %s)",
			name, strings.Join(Engines(), ", "))
	}
	return l, nil
}

// Compute assigns positions to the graph's nodes in place.
// Unless opts.Overwrite is set, nodes that already carry a position keep it.
func Compute(ctx context.Context, g *graph.Graph, opts Options) error {
	if g == nil || g.Len() == 0 {
		return nil
	}
	if !opts.Overwrite && positioned(g) {
		return nil
	}

	positions, err := compute(ctx, g, opts)
	if err != nil {
		return err
	}
	apply(g, positions, opts.Overwrite)
	return nil
}

func positioned(g *graph.Graph) bool {
	for i := range g.Nodes {
		if !g.Nodes[i].HasPosition() {
			return false
		}
	}
	return true
}

// compute runs Graphviz and returns the position of every node it placed.
func compute(ctx context.Context, g *graph.Graph, opts Options) (map[string]geom.Point, error) {
	engine, err := engineFor(opts.Engine)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(engine)

	parsed, err := graphviz.ParseBytes([]byte(toDOT(g)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "parse DOT")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.XDOT, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "run layout engine")
	}

	return parsePositions(buf.Bytes()), nil
}

func apply(g *graph.Graph, positions map[string]geom.Point, overwrite bool) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !overwrite && n.HasPosition() {
			continue
		}
		if p, ok := positions[n.ID]; ok {
			n.SetPosition(p)
		}
	}
}

// toDOT converts the graph to DOT for layout. Edges are undirected display
// edges, so the output is a plain graph with "--" connectors.
func toDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  node [shape=circle];\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		fmt.Fprintf(&buf, "  %q;\n", g.Nodes[i].ID)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

var (
	continuationRe = regexp.MustCompile(`\\\r?\n`)
	nodeStmtRe     = regexp.MustCompile(`(?m)^\s*("(?:[^"\\]|\\.)*"|[A-Za-z0-9_.]+)\s*\[([^\]]*)\]`)
	posAttrRe      = regexp.MustCompile(`pos="(-?[0-9.eE+]+),(-?[0-9.eE+]+)"`)
)

// parsePositions extracts pos attributes from laid-out DOT output.
// Graphviz wraps long attribute lists with backslash continuations, so
// those are unfolded before matching.
func parsePositions(out []byte) map[string]geom.Point {
	out = continuationRe.ReplaceAll(out, nil)

	positions := make(map[string]geom.Point)
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		id := unquote(string(m[1]))
		if id == "graph" || id == "node" || id == "edge" {
			continue
		}

		pos := posAttrRe.FindSubmatch(m[2])
		if pos == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pos[1]), 64)
		y, errY := strconv.ParseFloat(string(pos[2]), 64)
		if errX != nil || errY != nil {
			continue
		}
		positions[id] = geom.Point{X: x, Y: y}
	}
	return positions
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
