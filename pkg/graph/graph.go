// Package graph provides the node-graph store the selection engine scans.
//
// The package defines the canonical wire format for marquee's graph data,
// used for JSON files, API payloads, caching, and Mongo documents, and
// implements the node-iteration primitive selection hit-testing consumes.
//
// # Core Types
//
//   - [Graph]: node-link format with positioned nodes
//   - [Node]: identifier plus graph-space position and display size
//   - [Edge]: undirected display edge between two node IDs
//
// # Positions
//
// Node positions are optional at rest: X and Y are pointers so a node
// without coordinates is distinguishable from one sitting at the origin
// (zero is a valid coordinate). Nodes without a finite position are
// excluded from hit-testing and never reported selected; pkg/layout can
// assign positions to such nodes.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "x": 10, "y": 20, "size": 5}, {"id": "b"}],
//	  "edges": [{"source": "a", "target": "b"}]
//	}
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/selection"
)

// Node is a single graph node. Position fields are nil when the node has
// not been laid out yet.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"` // display label (defaults to ID)
	X     *float64       `json:"x,omitempty" bson:"x,omitempty"`
	Y     *float64       `json:"y,omitempty" bson:"y,omitempty"`
	Size  float64        `json:"size,omitempty" bson:"size,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasPosition reports whether the node carries a finite position. Nodes
// without one are skipped by hit-testing and by viewport fitting.
func (n *Node) HasPosition() bool {
	return n.X != nil && n.Y != nil && finite(*n.X) && finite(*n.Y)
}

// Position returns the node's position, or ok=false when it has none.
func (n *Node) Position() (p geom.Point, ok bool) {
	if !n.HasPosition() {
		return geom.Point{}, false
	}
	return geom.Point{X: *n.X, Y: *n.Y}, true
}

// SetPosition assigns a position in graph space.
func (n *Node) SetPosition(p geom.Point) {
	x, y := p.X, p.Y
	n.X = &x
	n.Y = &y
}

// Edge is an undirected display edge between two node IDs.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Graph is a set of nodes and edges in insertion order. Node iteration
// order is the order nodes were added (or appeared in the decoded file),
// which is also the order hit-test results are reported in.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	index map[string]int // node ID → position in Nodes; built lazily
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node. Adding a duplicate ID returns an error and
// leaves the graph unchanged.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if _, exists := g.lookup(n.ID); exists {
		return fmt.Errorf("duplicate node %s", n.ID)
	}
	g.Nodes = append(g.Nodes, n)
	if g.index != nil {
		g.index[n.ID] = len(g.Nodes) - 1
	}
	return nil
}

// AddEdge appends an edge. Both endpoints must exist.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.lookup(e.Source); !ok {
		return fmt.Errorf("edge source %s: unknown node", e.Source)
	}
	if _, ok := g.lookup(e.Target); !ok {
		return fmt.Errorf("edge target %s: unknown node", e.Target)
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// Node returns a pointer to the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	i, ok := g.lookup(id)
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// ForEachNode implements selection.NodeSource. Nodes without a usable
// position are delivered with NaN coordinates so the hit-test engine
// excludes them; zero remains a valid coordinate.
func (g *Graph) ForEachNode(fn func(id string, attrs selection.NodeAttrs) bool) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		attrs := selection.NodeAttrs{X: math.NaN(), Y: math.NaN(), Size: n.Size}
		if p, ok := n.Position(); ok {
			attrs.X = p.X
			attrs.Y = p.Y
		}
		if !fn(n.ID, attrs) {
			return
		}
	}
}

// Bounds returns the bounding rectangle of all positioned nodes and the
// number of nodes that contributed. A graph with no positioned nodes
// returns a zero rectangle and count 0.
func (g *Graph) Bounds() (geom.Rect, int) {
	var (
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		count      int
	)
	for i := range g.Nodes {
		p, ok := g.Nodes[i].Position()
		if !ok {
			continue
		}
		count++
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if count == 0 {
		return geom.Rect{}, 0
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, count
}

func (g *Graph) lookup(id string) (int, bool) {
	if g.index == nil {
		g.index = make(map[string]int, len(g.Nodes))
		for i := range g.Nodes {
			g.index[g.Nodes[i].ID] = i
		}
	}
	i, ok := g.index[id]
	return i, ok
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph, validating node IDs and edge
// endpoints.
func Unmarshal(data []byte) (*Graph, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a graph as JSON to w.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON graph from r, validating node IDs and edge
// endpoints. Insertion order follows the file.
func Read(r io.Reader) (*Graph, error) {
	var raw Graph
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New()
	for _, n := range raw.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range raw.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// WriteFile writes a graph to a JSON file with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// ReadFile reads and validates a JSON graph file.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Ensure Graph implements the selection engine's iteration primitive.
var _ selection.NodeSource = (*Graph)(nil)
