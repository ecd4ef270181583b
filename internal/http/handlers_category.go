package http

import (
	"fmt"
	"net/http"

	"timeline/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type categoryResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	entries := s.categories.List()
	out := make([]categoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, categoryResponse{Name: e.Name, Color: e.Color})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}
	if err := s.categories.Add(r.Context(), req.Name, req.Color); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{Name: req.Name, Color: req.Color})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}
	if err := s.categories.UpdateColor(r.Context(), name, req.Color); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{Name: name, Color: s.categories.ResolveColor(name)})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Remove(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
