// Package store provides persistence for named graphs.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - mongo: MongoDB-backed storage for server deployments
//
// # Architecture
//
// A stored graph is a Record: the graph itself plus identity and
// timestamps. Records are addressed by UUID; the Store interface supports
// Get/Put/Delete plus a metadata-only List so clients can enumerate
// graphs without pulling node payloads.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// CLI
//	st, err := store.NewFileStore("") // Uses ~/.config/marquee/graphs/
//
//	// Server
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "marquee")
//
// Manage records:
//
//	rec := store.NewRecord("my graph", g)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err := st.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if rec == nil {
//	    // Graph not found
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/graphkit/marquee/pkg/graph"
)

// Record is a stored graph with identity and timestamps.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Graph     *graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Meta is the listing view of a record: everything but the graph payload.
type Meta struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	EdgeCount int       `json:"edge_count" bson:"edge_count"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Meta returns the record's listing view.
func (r *Record) Meta() Meta {
	m := Meta{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Graph != nil {
		m.NodeCount = len(r.Graph.Nodes)
		m.EdgeCount = len(r.Graph.Edges)
	}
	return m
}

// Store is the interface for graph storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns nil, nil if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, replacing any existing record with the same ID.
	// UpdatedAt is refreshed on every write.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all stored records.
	List(ctx context.Context) ([]Meta, error)

	// Close releases backend resources.
	Close() error
}

// NewID generates a new record identifier.
func NewID() string {
	return uuid.NewString()
}

// NewRecord creates a record for a graph with a fresh ID and timestamps.
func NewRecord(name string, g *graph.Graph) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        NewID(),
		Name:      name,
		Graph:     g,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
