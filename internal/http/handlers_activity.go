package http

import (
	"fmt"
	"net/http"

	"timeline/internal/core"
	applog "timeline/internal/log"
	"timeline/internal/services"
	"timeline/internal/tables"
)

// activityRequest is the payload for create and update. Dates arrive as
// strings in the wire format and are parsed at the boundary.
type activityRequest struct {
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

type activityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Category    string `json:"category"`
	Color       string `json:"color"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) toActivityResponse(a core.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID,
		Name:        a.Name,
		StartDate:   core.FormatDate(a.Start),
		EndDate:     core.FormatDate(a.End),
		Category:    a.Category,
		Color:       s.categories.ResolveColor(a.Category),
		Priority:    string(a.Priority),
		Description: a.Description,
		CreatedAt:   core.FormatDateTime(a.CreatedAt),
	}
}

func (req activityRequest) toInput() (services.ActivityInput, error) {
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return services.ActivityInput{}, err
	}
	end, err := core.ParseDate(req.EndDate)
	if err != nil {
		return services.ActivityInput{}, err
	}
	return services.ActivityInput{
		Name:        req.Name,
		Start:       start,
		End:         end,
		Category:    req.Category,
		Priority:    core.Priority(req.Priority),
		Description: req.Description,
	}, nil
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Load(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.activities.Load(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Activities int                 `json:"activities"`
		Categories int                 `json:"categories"`
		Skipped    []tables.SkippedRow `json:"skipped,omitempty"`
	}{
		Activities: len(s.activities.Activities()),
		Categories: len(s.categories.List()),
		Skipped:    s.activities.SkippedRows(),
	})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	acts := s.activities.ListSortedByStart()
	out := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		out = append(out, s.toActivityResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.activities.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).Info("Activity created",
		applog.FieldActivityID, a.ID, applog.FieldOperation, applog.OpCreate)
	writeJSON(w, http.StatusCreated, s.toActivityResponse(a))
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.activities.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toActivityResponse(a))
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	// Deleting an unknown id is deliberately a no-op, not an error.
	s.activities.Remove(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearActivities(w http.ResponseWriter, r *http.Request) {
	s.activities.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type countRow struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.activities.Summary()
	resp := struct {
		Total      int        `json:"total"`
		ByCategory []countRow `json:"by_category"`
		ByPriority []countRow `json:"by_priority"`
	}{Total: sum.Total}
	for _, row := range sum.ByCategory {
		resp.ByCategory = append(resp.ByCategory, countRow{Name: row.Name, Count: row.Count})
	}
	for _, row := range sum.ByPriority {
		resp.ByPriority = append(resp.ByPriority, countRow{Name: row.Name, Count: row.Count})
	}
	writeJSON(w, http.StatusOK, resp)
}
