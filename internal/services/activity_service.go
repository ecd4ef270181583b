package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeline/internal/core"
	"timeline/internal/tables"
)

// ActivityInput carries the caller-settable fields of an activity. ID and
// CreatedAt are owned by the service.
type ActivityInput struct {
	Name        string
	Start       core.Date
	End         core.Date
	Category    string
	Priority    core.Priority
	Description string
}

// ActivityService owns the in-memory activity collection for the session.
// Mutations validate first, then apply, then mirror the whole collection to
// the backend. A failed write is a logged warning, not an error: the session
// keeps running on in-memory state and the next save supersedes.
type ActivityService struct {
	mu      sync.Mutex
	table   tables.ActivityTable
	acts    []core.Activity
	skipped []tables.SkippedRow
}

func NewActivityService(table tables.ActivityTable) *ActivityService {
	return &ActivityService{table: table}
}

// Load replaces the in-memory collection with the backend's contents.
// Records the backend could not parse are kept for reporting.
func (s *ActivityService) Load(ctx context.Context) error {
	res, err := s.table.LoadActivities(ctx)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	s.mu.Lock()
	s.acts = res.Activities
	s.skipped = res.Skipped
	s.mu.Unlock()
	slog.InfoContext(ctx, "Activities loaded", "count", len(res.Activities), "skipped", len(res.Skipped))
	return nil
}

// Add validates, assigns a fresh id and creation timestamp, appends and
// persists.
func (s *ActivityService) Add(ctx context.Context, in ActivityInput) (core.Activity, error) {
	a := core.Activity{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Start:       in.Start,
		End:         in.End,
		Category:    in.Category,
		Priority:    in.Priority,
		Description: in.Description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acts = append(s.acts, a)
	s.persist(ctx)
	slog.InfoContext(ctx, "Activity added", "id", a.ID, "name", a.Name, "category", a.Category)
	return a, nil
}

// Update replaces every mutable field of the activity with the given id,
// leaving id and created_at untouched. Nothing is applied on validation
// failure or when the id is unknown.
func (s *ActivityService) Update(ctx context.Context, id string, in ActivityInput) (core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Activity{}, fmt.Errorf("%w: activity %q", core.ErrNotFound, id)
	}
	updated := s.acts[idx]
	updated.Name = in.Name
	updated.Start = in.Start
	updated.End = in.End
	updated.Category = in.Category
	updated.Priority = in.Priority
	updated.Description = in.Description
	if err := updated.Validate(); err != nil {
		return core.Activity{}, err
	}
	s.acts[idx] = updated
	s.persist(ctx)
	slog.InfoContext(ctx, "Activity updated", "id", id, "name", updated.Name)
	return updated, nil
}

// Remove deletes the activity with the given id. An unknown id is a no-op,
// matching the lenient deletion semantics of the UI.
func (s *ActivityService) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.acts = append(s.acts[:idx], s.acts[idx+1:]...)
	s.persist(ctx)
	slog.InfoContext(ctx, "Activity removed", "id", id)
}

// Clear drops every activity and persists the empty collection.
func (s *ActivityService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acts = nil
	s.persist(ctx)
	slog.InfoContext(ctx, "All activities cleared")
}

// Get returns the activity with the given id.
func (s *ActivityService) Get(id string) (core.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Activity{}, false
	}
	return s.acts[idx], true
}

// Activities returns a copy of the collection in insertion order.
func (s *ActivityService) Activities() []core.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Activity(nil), s.acts...)
}

// ListSortedByStart returns the activities stably sorted ascending by start
// date.
func (s *ActivityService) ListSortedByStart() []core.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SortedByStart(s.acts)
}

// Summary returns counts by category and priority.
func (s *ActivityService) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.acts)
}

// SkippedRows reports the records skipped during the last load.
func (s *ActivityService) SkippedRows() []tables.SkippedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tables.SkippedRow(nil), s.skipped...)
}

// AppendImported adds already-parsed records (CSV import) to the collection
// and persists once.
func (s *ActivityService) AppendImported(ctx context.Context, acts []core.Activity) {
	if len(acts) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acts = append(s.acts, acts...)
	s.persist(ctx)
	slog.InfoContext(ctx, "Imported activities appended", "count", len(acts))
}

// ReplaceAll discards the collection in favor of the given one and persists.
// Used by the workbook snapshot import.
func (s *ActivityService) ReplaceAll(ctx context.Context, acts []core.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acts = append([]core.Activity(nil), acts...)
	s.persist(ctx)
	slog.InfoContext(ctx, "Activities replaced", "count", len(acts))
}

func (s *ActivityService) indexOf(id string) int {
	for i, a := range s.acts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *ActivityService) persist(ctx context.Context) {
	if err := s.table.SaveActivities(ctx, s.acts); err != nil {
		slog.WarnContext(ctx, "Failed to save activities, in-memory state kept", "error", err)
	}
}
