package tables

import (
	"fmt"
	"strings"

	"timeline/internal/core"
)

// Canonical file names for the local backend and the bundle archive.
const (
	ActivitiesFileName = "activities.json"
	CategoriesFileName = "categories.json"
)

// Canonical column sets shared by the spreadsheet, CSV and workbook formats.
// The first row of every table is this header.
var (
	ActivityColumns = []string{"id", "name", "start_date", "end_date", "category", "priority", "description", "created_at"}
	CategoryColumns = []string{"name", "color"}
)

// EncodeActivityRow renders an activity in the canonical column order.
func EncodeActivityRow(a core.Activity) []string {
	return []string{
		a.ID,
		a.Name,
		core.FormatDate(a.Start),
		core.FormatDate(a.End),
		a.Category,
		string(a.Priority),
		a.Description,
		core.FormatDateTime(a.CreatedAt),
	}
}

// RowDecoder maps a header row to column positions and decodes activity rows
// against it. Extra columns are ignored; missing optional columns (id,
// created_at) fall back to their documented defaults at the caller's policy.
type RowDecoder struct {
	idx map[string]int
}

// NewRowDecoder builds a decoder from a header row. The two date columns are
// required; anything else may be absent.
func NewRowDecoder(header []string) (*RowDecoder, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"start_date", "end_date"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", core.ErrSchema, required)
		}
	}
	return &RowDecoder{idx: idx}, nil
}

// Decode parses one data row. Unparseable start or end dates fail the row;
// a missing or malformed created_at is substituted with the current time.
// The returned ID may be empty; the caller decides whether to skip the row
// (spreadsheet load) or assign a fresh one (CSV import).
func (d *RowDecoder) Decode(cols []string) (core.Activity, error) {
	start, err := core.ParseDate(d.get(cols, "start_date"))
	if err != nil {
		return core.Activity{}, err
	}
	end, err := core.ParseDate(d.get(cols, "end_date"))
	if err != nil {
		return core.Activity{}, err
	}
	return core.Activity{
		ID:          strings.TrimSpace(d.get(cols, "id")),
		Name:        d.get(cols, "name"),
		Start:       start,
		End:         end,
		Category:    d.get(cols, "category"),
		Priority:    core.Priority(d.get(cols, "priority")),
		Description: d.get(cols, "description"),
		CreatedAt:   core.ParseDateTimeOrNow(d.get(cols, "created_at")),
	}, nil
}

func (d *RowDecoder) get(cols []string, name string) string {
	i, ok := d.idx[name]
	if !ok || i >= len(cols) {
		return ""
	}
	return cols[i]
}

// RawRow renders a row for skip reports.
func RawRow(cols []string) string {
	return strings.Join(cols, ",")
}
