package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/graphkit/marquee/pkg/errors"
	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/pipeline"
	"github.com/graphkit/marquee/pkg/store"
)

// createGraphRequest is the POST /graphs body.
type createGraphRequest struct {
	Name  string          `json:"name"`
	Graph json.RawMessage `json:"graph"`
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Graph) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "graph is required"))
		return
	}

	g, err := graph.Unmarshal(req.Graph)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	rec := store.NewRecord(req.Name, g)
	if err := s.cfg.Store.Put(r.Context(), rec); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store graph"))
		return
	}

	writeJSON(w, http.StatusCreated, rec.Meta())
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	metas, err := s.cfg.Store.List(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "list graphs"))
		return
	}
	if metas == nil {
		metas = []store.Meta{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": metas})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete graph"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layoutRequest is the POST /graphs/{id}/layout body.
type layoutRequest struct {
	Engine   string `json:"engine,omitempty"`
	Relayout bool   `json:"relayout,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}

	var req layoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
			return
		}
	}

	opts := pipeline.Options{
		Graph:    rec.Graph,
		Engine:   req.Engine,
		Relayout: req.Relayout,
		Logger:   s.logger,
	}
	opts.SetDefaults()

	if _, err := s.cfg.Runner.ComputeLayout(r.Context(), rec.Graph, opts); err != nil {
		writeError(w, err)
		return
	}

	if err := s.cfg.Store.Put(r.Context(), rec); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store laid-out graph"))
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// selectRequest is the POST /graphs/{id}/select body.
type selectRequest struct {
	Rect               geom.Rect `json:"rect"`
	SelectOnlyComplete bool      `json:"select_only_complete,omitempty"`
	NodeSizeMultiplier float64   `json:"node_size_multiplier,omitempty"`
	Engine             string    `json:"engine,omitempty"`
}

// selectResponse carries the selection result plus run metadata.
type selectResponse struct {
	NodeIDs   []string       `json:"node_ids"`
	Matched   int            `json:"matched"`
	GraphHash string         `json:"graph_hash"`
	Stats     pipeline.Stats `json:"stats"`
	LayoutHit bool           `json:"layout_cache_hit"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), pipeline.Options{
		GraphID:            id,
		Rect:               req.Rect,
		SelectOnlyComplete: req.SelectOnlyComplete,
		NodeSizeMultiplier: req.NodeSizeMultiplier,
		Engine:             req.Engine,
		Logger:             s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	ids := result.NodeIDs
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, selectResponse{
		NodeIDs:   ids,
		Matched:   result.Stats.Matched,
		GraphHash: result.GraphHash,
		Stats:     result.Stats,
		LayoutHit: result.CacheInfo.LayoutHit,
	})
}

// loadRecord fetches the record named in the URL, writing the error
// response itself when the ID is invalid or unknown.
func (s *Server) loadRecord(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		writeError(w, err)
		return nil, false
	}

	rec, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "load graph"))
		return nil, false
	}
	if rec == nil {
		writeError(w, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", id))
		return nil, false
	}
	return rec, true
}
