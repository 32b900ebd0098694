package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/pipeline"
	"github.com/graphkit/marquee/pkg/store"
)

func testServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Config{
		Store:  st,
		Runner: pipeline.NewRunner(nil, nil, logger),
		Logger: logger,
	})
	return srv, st
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func storedGraph(t *testing.T, st store.Store) *store.Record {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{{ID: "a"}, {ID: "b"}} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	g.Nodes[0].SetPosition(geom.Point{X: 10, Y: 10})
	g.Nodes[1].SetPosition(geom.Point{X: 100, Y: 100})

	rec := store.NewRecord("stored", g)
	if err := st.Put(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestCreateAndGetGraph(t *testing.T) {
	srv, _ := testServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/v1/graphs", map[string]any{
		"name": "demo",
		"graph": map[string]any{
			"nodes": []map[string]any{{"id": "a", "x": 1, "y": 2}},
			"edges": []map[string]any{},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body)
	}

	var meta store.Meta
	if err := json.Unmarshal(rr.Body.Bytes(), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.ID == "" || meta.Name != "demo" || meta.NodeCount != 1 {
		t.Errorf("meta = %+v", meta)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/v1/graphs/"+meta.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var rec store.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Graph == nil || rec.Graph.Len() != 1 {
		t.Errorf("record graph = %+v", rec.Graph)
	}
}

func TestCreateGraphRejectsInvalidPayloads(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"MissingGraph", map[string]any{"name": "x"}},
		{"DanglingEdge", map[string]any{
			"name": "x",
			"graph": map[string]any{
				"nodes": []map[string]any{{"id": "a"}},
				"edges": []map[string]any{{"source": "a", "target": "ghost"}},
			},
		}},
		{"DuplicateNode", map[string]any{
			"name": "x",
			"graph": map[string]any{
				"nodes": []map[string]any{{"id": "a"}, {"id": "a"}},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/v1/graphs", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", rr.Code, rr.Body)
			}
		})
	}
}

func TestListGraphs(t *testing.T) {
	srv, st := testServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/v1/graphs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var listing struct {
		Graphs []store.Meta `json:"graphs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Graphs) != 0 {
		t.Errorf("empty store should list zero graphs, got %d", len(listing.Graphs))
	}

	storedGraph(t, st)
	rr = doJSON(t, srv, http.MethodGet, "/api/v1/graphs", nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Graphs) != 1 || listing.Graphs[0].NodeCount != 2 {
		t.Errorf("listing = %+v", listing.Graphs)
	}
}

func TestDeleteGraph(t *testing.T) {
	srv, st := testServer(t)
	rec := storedGraph(t, st)

	rr := doJSON(t, srv, http.MethodDelete, "/api/v1/graphs/"+rec.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/v1/graphs/"+rec.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rr.Code)
	}
}

func TestGetUnknownGraphIs404(t *testing.T) {
	srv, _ := testServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/api/v1/graphs/"+store.NewID(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "GRAPH_NOT_FOUND" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestSelect(t *testing.T) {
	srv, st := testServer(t)
	rec := storedGraph(t, st)

	rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/graphs/%s/select", rec.ID), map[string]any{
		"rect": map[string]any{"x": 0, "y": 0, "width": 50, "height": 50},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	var resp selectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.NodeIDs) != 1 || resp.NodeIDs[0] != "a" {
		t.Errorf("NodeIDs = %v, want [a]", resp.NodeIDs)
	}
	if resp.Matched != 1 || resp.GraphHash == "" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSelectEmptyRectMatchesNothing(t *testing.T) {
	srv, st := testServer(t)
	rec := storedGraph(t, st)

	rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/graphs/%s/select", rec.ID), map[string]any{
		"rect": map[string]any{"x": 10, "y": 10, "width": 0, "height": 0},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	var resp selectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.NodeIDs) != 0 {
		t.Errorf("degenerate rect selected %v", resp.NodeIDs)
	}
}

func TestSelectRejectsBadRect(t *testing.T) {
	srv, st := testServer(t)
	rec := storedGraph(t, st)

	rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/graphs/%s/select", rec.ID), map[string]any{
		"rect": map[string]any{"x": 0, "y": 0, "width": -5, "height": 10},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body = %s", rr.Code, rr.Body)
	}
}

func TestSelectOnlyComplete(t *testing.T) {
	srv, st := testServer(t)

	// Node with hit radius 10 (size 5 × default multiplier 2) centered at
	// (10,10): intersects a 0..15 rect but is not contained by it.
	g := graph.New()
	if err := g.AddNode(graph.Node{ID: "edge-node", Size: 5}); err != nil {
		t.Fatal(err)
	}
	g.Nodes[0].SetPosition(geom.Point{X: 10, Y: 10})
	rec := store.NewRecord("partial", g)
	if err := st.Put(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	body := map[string]any{
		"rect":                 map[string]any{"x": 0, "y": 0, "width": 15, "height": 15},
		"select_only_complete": true,
	}
	rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/graphs/%s/select", rec.ID), body)
	var resp selectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.NodeIDs) != 0 {
		t.Errorf("partially covered node selected under full containment: %v", resp.NodeIDs)
	}

	delete(body, "select_only_complete")
	rr = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/graphs/%s/select", rec.ID), body)
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.NodeIDs) != 1 {
		t.Errorf("intersection mode should select the node: %v", resp.NodeIDs)
	}
}
