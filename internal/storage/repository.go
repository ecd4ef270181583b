// Package storage persists the two collections in SQLite behind the same
// table ports as the file and spreadsheet backends. Writes follow the same
// replace-all policy: delete every row, then insert the whole collection in
// one transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"timeline/internal/core"
	"timeline/internal/tables"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Interface conformance
var (
	_ tables.ActivityTable = (*SQLiteRepository)(nil)
	_ tables.CategoryTable = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.seedCategories(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// seedCategories inserts the default entry when the table is empty, so the
// never-empty invariant holds from first use.
func (r *SQLiteRepository) seedCategories(ctx context.Context) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (name, color) VALUES (?, ?)`, "Other", core.DefaultColor)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	slog.InfoContext(ctx, "Seeded default category", "name", "Other", "color", core.DefaultColor)
	return nil
}

func (r *SQLiteRepository) LoadActivities(ctx context.Context) (tables.ActivityLoad, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, category, priority, description, created_at
		 FROM activities ORDER BY rowid`)
	if err != nil {
		return tables.ActivityLoad{}, fmt.Errorf("%w: query activities: %v", core.ErrBackend, err)
	}
	defer rows.Close()

	var out tables.ActivityLoad
	for rows.Next() {
		var id, name, startStr, endStr, category, priority, description, createdStr string
		if err := rows.Scan(&id, &name, &startStr, &endStr, &category, &priority, &description, &createdStr); err != nil {
			return tables.ActivityLoad{}, fmt.Errorf("%w: scan activity: %v", core.ErrBackend, err)
		}
		start, err := core.ParseDate(startStr)
		if err == nil {
			var end core.Date
			if end, err = core.ParseDate(endStr); err == nil {
				out.Activities = append(out.Activities, core.Activity{
					ID:          id,
					Name:        name,
					Start:       start,
					End:         end,
					Category:    category,
					Priority:    core.Priority(priority),
					Description: description,
					CreatedAt:   core.ParseDateTimeOrNow(createdStr),
				})
				continue
			}
		}
		out.Skipped = append(out.Skipped, tables.SkippedRow{
			Raw:    tables.RawRow([]string{id, name, startStr, endStr, category, priority, description, createdStr}),
			Reason: err.Error(),
		})
		slog.WarnContext(ctx, "Skipping unparseable activity row", "id", id, "error", err)
	}
	if err := rows.Err(); err != nil {
		return tables.ActivityLoad{}, fmt.Errorf("%w: iterate activities: %v", core.ErrBackend, err)
	}
	return out, nil
}

func (r *SQLiteRepository) SaveActivities(ctx context.Context, acts []core.Activity) error {
	return r.replaceAll(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
			return fmt.Errorf("clear activities: %w", err)
		}
		for _, a := range acts {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO activities (id, name, start_date, end_date, category, priority, description, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, a.Name, core.FormatDate(a.Start), core.FormatDate(a.End),
				a.Category, string(a.Priority), a.Description, core.FormatDateTime(a.CreatedAt))
			if err != nil {
				return fmt.Errorf("insert activity %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadCategories(ctx context.Context) (*core.CategorySet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, color FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query categories: %v", core.ErrBackend, err)
	}
	defer rows.Close()

	cats := core.NewCategorySet()
	for rows.Next() {
		var name, color string
		if err := rows.Scan(&name, &color); err != nil {
			return nil, fmt.Errorf("%w: scan category: %v", core.ErrBackend, err)
		}
		_ = cats.Add(name, color)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate categories: %v", core.ErrBackend, err)
	}
	if cats.Len() == 0 {
		return core.NewCategorySet(core.Category{Name: "Other", Color: core.DefaultColor}), nil
	}
	return cats, nil
}

func (r *SQLiteRepository) SaveCategories(ctx context.Context, cats *core.CategorySet) error {
	return r.replaceAll(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		for _, e := range cats.Entries() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO categories (name, color) VALUES (?, ?)`, e.Name, e.Color); err != nil {
				return fmt.Errorf("insert category %s: %w", e.Name, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) replaceAll(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", core.ErrBackend, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", core.ErrBackend, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrBackend, err)
	}
	return nil
}
