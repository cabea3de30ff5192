// Package http exposes the editing session as a JSON API over HTTP. It is
// thin glue: every mutation goes through the Editor, so the validator gate
// and the undo history apply to API clients exactly as they do in-process.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atlasbruce/bramble"
	"github.com/atlasbruce/bramble/internal/logging"
	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/validator"
)

// Server wraps an Editor with HTTP handlers.
type Server struct {
	editor *bramble.Editor
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for an editing session.
func NewHandler(editor *bramble.Editor, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{editor: editor, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)

	// The undo history is per-session, not per-graph: one stack covers every
	// open document, so undo/redo live at the session root.
	r.Post("/undo", s.undo)
	r.Post("/redo", s.redo)

	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.createGraph)
		r.Get("/", s.listGraphs)

		r.Route("/{graphID}", func(r chi.Router) {
			r.Get("/", s.getGraph)
			r.Delete("/", s.closeGraph)
			r.Post("/save", s.saveGraph)
			r.Get("/lint", s.lintGraph)

			r.Post("/nodes", s.createNode)
			r.Delete("/nodes/{nodeID}", s.deleteNode)
			r.Post("/nodes/{nodeID}/move", s.moveNode)
			r.Post("/nodes/{nodeID}/duplicate", s.duplicateNode)

			r.Post("/links", s.createLink)
			r.Delete("/links", s.deleteLink)
		})
	})

	return r
}

type createGraphRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type createNodeRequest struct {
	Type string  `json:"type"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Root bool    `json:"root"`
}

type linkRequest struct {
	ParentID int `json:"parentId"`
	ChildID  int `json:"childId"`
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": bramble.Version})
}

func (s *Server) createGraph(w http.ResponseWriter, r *http.Request) {
	var body createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := domain.GraphKind(body.Kind)
	if !kind.Valid() {
		s.writeError(w, http.StatusBadRequest, "unknown graph kind: "+body.Kind)
		return
	}

	id := s.editor.NewGraph(body.Name, kind)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"graphs": s.editor.Manager().List()})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.editor.Graph(graphID(r))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) closeGraph(w http.ResponseWriter, r *http.Request) {
	if !s.editor.CloseGraph(graphID(r)) {
		s.writeError(w, http.StatusNotFound, "graph not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) saveGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.SaveGraph(r.Context(), graphID(r)); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lintGraph(w http.ResponseWriter, r *http.Request) {
	id := graphID(r)

	warnings, err := s.editor.Lint(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	resp := map[string]any{"warnings": warnings, "valid": true}
	if err := s.editor.Validate(id); err != nil {
		resp["valid"] = false
		resp["error"] = err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var body createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	nodeType, err := domain.ParseNodeType(body.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := graphID(r)
	nodeID, err := s.editor.AddNode(id, nodeType, body.X, body.Y, body.Name)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	if body.Root {
		if err := s.editor.SetRoot(id, nodeID); err != nil {
			s.writeFailure(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"id": nodeID})
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := nodeID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}
	if err := s.editor.RemoveNode(graphID(r), nodeID); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := nodeID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}

	var body moveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.editor.MoveNode(graphID(r), nodeID, body.X, body.Y); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) duplicateNode(w http.ResponseWriter, r *http.Request) {
	nodeID, ok := nodeID(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}

	dupID, err := s.editor.DuplicateNode(graphID(r), nodeID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"id": dupID})
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request) {
	var body linkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.editor.Connect(graphID(r), body.ParentID, body.ChildID); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request) {
	var body linkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.editor.Disconnect(graphID(r), body.ParentID, body.ChildID); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	done, err := s.editor.Undo()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"undone": done})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	done, err := s.editor.Redo()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"redone": done})
}

// writeFailure maps core errors onto HTTP statuses: rejected connections
// are 422 with the validator's reason, missing entities are 404, the rest
// is a 500.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var ruleErr *validator.RuleError
	switch {
	case errors.As(err, &ruleErr):
		s.writeError(w, http.StatusUnprocessableEntity, ruleErr.Reason)
	case errors.Is(err, domain.ErrGraphNotFound), errors.Is(err, domain.ErrNodeNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func graphID(r *http.Request) domain.GraphID {
	return domain.GraphID(chi.URLParam(r, "graphID"))
}

func nodeID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "nodeID"))
	if err != nil {
		return 0, false
	}
	return id, true
}
