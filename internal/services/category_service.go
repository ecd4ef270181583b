package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"timeline/internal/core"
	"timeline/internal/tables"
)

// CategoryService owns the in-memory category collection for the session.
// Every successful mutation rewrites the whole backing table; a failed write
// is logged as a warning and the in-memory state stays authoritative.
type CategoryService struct {
	mu    sync.Mutex
	table tables.CategoryTable
	cats  *core.CategorySet
}

func NewCategoryService(table tables.CategoryTable) *CategoryService {
	return &CategoryService{
		table: table,
		cats:  core.NewCategorySet(core.Category{Name: "Other", Color: core.DefaultColor}),
	}
}

// Load replaces the in-memory collection with the backend's contents.
func (s *CategoryService) Load(ctx context.Context) error {
	cats, err := s.table.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	s.mu.Lock()
	s.cats = cats
	s.mu.Unlock()
	slog.InfoContext(ctx, "Categories loaded", "count", cats.Len())
	return nil
}

// Add inserts a new category and persists.
func (s *CategoryService) Add(ctx context.Context, name, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cats.Add(name, color); err != nil {
		return err
	}
	s.persist(ctx)
	slog.InfoContext(ctx, "Category added", "name", name, "color", color)
	return nil
}

// UpdateColor overwrites the color of an existing category. Setting the
// color it already has skips the persistence round-trip.
func (s *CategoryService) UpdateColor(ctx context.Context, name, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed, err := s.cats.SetColor(name, color)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	s.persist(ctx)
	slog.InfoContext(ctx, "Category color updated", "name", name, "color", color)
	return nil
}

// Remove deletes a category. The collection never shrinks to zero entries.
func (s *CategoryService) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cats.Remove(name); err != nil {
		return err
	}
	s.persist(ctx)
	slog.InfoContext(ctx, "Category removed", "name", name)
	return nil
}

// ResolveColor maps a category name to its color, falling back to the
// default for dangling references. Never fails.
func (s *CategoryService) ResolveColor(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cats.Color(name)
}

// Has reports whether the category exists.
func (s *CategoryService) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cats.Has(name)
}

// List returns the categories in insertion order.
func (s *CategoryService) List() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cats.Entries()
}

// Set returns an independent copy of the whole collection.
func (s *CategoryService) Set() *core.CategorySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cats.Clone()
}

// ReplaceAll discards the current collection in favor of the given one and
// persists. Used by the workbook and categories-JSON imports; an empty set
// is rejected so the never-empty invariant survives imports.
func (s *CategoryService) ReplaceAll(ctx context.Context, cats *core.CategorySet) error {
	if cats == nil || cats.Len() == 0 {
		return fmt.Errorf("%w: imported category collection is empty", core.ErrSchema)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats = cats.Clone()
	s.persist(ctx)
	slog.InfoContext(ctx, "Categories replaced", "count", cats.Len())
	return nil
}

// persist mirrors the in-memory state to the backend. Write failures are
// deliberately non-fatal: the session keeps running on in-memory state and
// the next successful save supersedes.
func (s *CategoryService) persist(ctx context.Context) {
	if err := s.table.SaveCategories(ctx, s.cats); err != nil {
		slog.WarnContext(ctx, "Failed to save categories, in-memory state kept", "error", err)
	}
}
