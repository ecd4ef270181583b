package tables

import (
	"context"

	"timeline/internal/core"
)

// Ports for outbound persistence adapters. Every backend exposes the two
// logical tables with identical load/save contracts; saves are always a full
// overwrite of the backing table or file, never an incremental patch.
type (
	// SkippedRow records a raw record that failed to parse during a tolerant
	// load, so callers can report it instead of silently losing data.
	SkippedRow struct {
		Raw    string `json:"raw"`
		Reason string `json:"reason"`
	}

	// ActivityLoad is the result-with-errors shape of a tolerant read: the
	// records that parsed plus the ones that were skipped.
	ActivityLoad struct {
		Activities []core.Activity
		Skipped    []SkippedRow
	}

	ActivityTable interface {
		LoadActivities(ctx context.Context) (ActivityLoad, error)
		SaveActivities(ctx context.Context, acts []core.Activity) error
	}

	CategoryTable interface {
		LoadCategories(ctx context.Context) (*core.CategorySet, error)
		SaveCategories(ctx context.Context, cats *core.CategorySet) error
	}
)
