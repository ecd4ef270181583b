// Package local persists the two collections as a pair of JSON files in a
// data directory: activities.json (array of records with string-encoded
// dates) and categories.json (flat name-to-color object).
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"timeline/internal/core"
	"timeline/internal/tables"
)

type Store struct {
	dir string
}

// Interface conformance
var (
	_ tables.ActivityTable = (*Store)(nil)
	_ tables.CategoryTable = (*Store)(nil)
)

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory %s: %v", core.ErrBackend, dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) LoadActivities(ctx context.Context) (tables.ActivityLoad, error) {
	path := filepath.Join(s.dir, tables.ActivitiesFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return tables.ActivityLoad{}, nil
	}
	if err != nil {
		return tables.ActivityLoad{}, fmt.Errorf("%w: read %s: %v", core.ErrBackend, path, err)
	}

	out, err := tables.UnmarshalActivitiesJSON(data)
	if err != nil {
		return tables.ActivityLoad{}, err
	}
	for _, skip := range out.Skipped {
		slog.WarnContext(ctx, "Skipping unparseable activity record", "file", path, "reason", skip.Reason)
	}
	return out, nil
}

func (s *Store) SaveActivities(ctx context.Context, acts []core.Activity) error {
	data, err := tables.MarshalActivitiesJSON(acts)
	if err != nil {
		return fmt.Errorf("%w: encode activities: %v", core.ErrBackend, err)
	}
	return s.writeFile(ctx, tables.ActivitiesFileName, data)
}

func (s *Store) LoadCategories(ctx context.Context) (*core.CategorySet, error) {
	path := filepath.Join(s.dir, tables.CategoriesFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.InfoContext(ctx, "No categories file, seeding default", "file", path)
		return core.NewCategorySet(core.Category{Name: "Other", Color: core.DefaultColor}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrBackend, path, err)
	}

	cats := core.NewCategorySet()
	if err := json.Unmarshal(data, cats); err != nil {
		return nil, err
	}
	if cats.Len() == 0 {
		// Keep the never-empty invariant even if the file was emptied by hand.
		return core.NewCategorySet(core.Category{Name: "Other", Color: core.DefaultColor}), nil
	}
	return cats, nil
}

func (s *Store) SaveCategories(ctx context.Context, cats *core.CategorySet) error {
	data, err := json.MarshalIndent(cats, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode categories: %v", core.ErrBackend, err)
	}
	return s.writeFile(ctx, tables.CategoriesFileName, data)
}

func (s *Store) writeFile(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", core.ErrBackend, path, err)
	}
	slog.DebugContext(ctx, "File saved", "file", path, "bytes", len(data))
	return nil
}
