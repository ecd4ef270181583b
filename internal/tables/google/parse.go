package google

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"timeline/internal/core"
	"timeline/internal/tables"
)

// decodeActivityRows converts a values matrix (as returned by the Sheets
// API) into activities. The first row is the header. Rows without an id are
// ignored as padding; rows whose dates do not parse are skipped and
// reported, never failing the whole load.
func decodeActivityRows(ctx context.Context, values [][]any) (tables.ActivityLoad, error) {
	if len(values) == 0 {
		return tables.ActivityLoad{}, nil
	}
	dec, err := tables.NewRowDecoder(toStrings(values[0]))
	if err != nil {
		return tables.ActivityLoad{}, err
	}

	var out tables.ActivityLoad
	for i := 1; i < len(values); i++ {
		cols := toStrings(values[i])
		if isBlankRow(cols) {
			continue
		}
		a, err := dec.Decode(cols)
		if err != nil {
			out.Skipped = append(out.Skipped, tables.SkippedRow{Raw: tables.RawRow(cols), Reason: err.Error()})
			slog.WarnContext(ctx, "Skipping unparseable spreadsheet row", "row", i+1, "error", err)
			continue
		}
		if a.ID == "" {
			// Blank or partially filled padding rows are not an error.
			continue
		}
		out.Activities = append(out.Activities, a)
	}
	return out, nil
}

// decodeCategoryRows reads name/color pairs below the header, skipping
// nameless rows. An empty result falls back to the seed entry so the
// never-empty invariant holds.
func decodeCategoryRows(values [][]any) *core.CategorySet {
	cats := core.NewCategorySet()
	for i := 1; i < len(values); i++ {
		cols := toStrings(values[i])
		if len(cols) == 0 || strings.TrimSpace(cols[0]) == "" {
			continue
		}
		color := ""
		if len(cols) > 1 {
			color = strings.TrimSpace(cols[1])
		}
		_ = cats.Add(cols[0], color)
	}
	if cats.Len() == 0 {
		return core.NewCategorySet(core.Category{Name: "Other", Color: core.DefaultColor})
	}
	return cats
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toAnyRow(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
