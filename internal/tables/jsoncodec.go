package tables

import (
	"encoding/json"
	"fmt"

	"timeline/internal/core"
)

// activityRecord is the canonical JSON wire shape of one activity, used by
// the local file pair and the bundle archive. Dates stay strings on the wire
// and are parsed at the boundary.
type activityRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// MarshalActivitiesJSON encodes the collection as the canonical JSON array.
func MarshalActivitiesJSON(acts []core.Activity) ([]byte, error) {
	records := make([]activityRecord, 0, len(acts))
	for _, a := range acts {
		records = append(records, activityRecord{
			ID:          a.ID,
			Name:        a.Name,
			StartDate:   core.FormatDate(a.Start),
			EndDate:     core.FormatDate(a.End),
			Category:    a.Category,
			Priority:    string(a.Priority),
			Description: a.Description,
			CreatedAt:   core.FormatDateTime(a.CreatedAt),
		})
	}
	return json.MarshalIndent(records, "", "  ")
}

// UnmarshalActivitiesJSON decodes the canonical JSON array with the tolerant
// read policy: records without an id or with unparseable dates are skipped
// and reported, never failing the batch. A non-array document is a schema
// error.
func UnmarshalActivitiesJSON(data []byte) (ActivityLoad, error) {
	var records []activityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return ActivityLoad{}, fmt.Errorf("%w: activities must be an array of records: %v", core.ErrSchema, err)
	}

	var out ActivityLoad
	for _, r := range records {
		a, err := r.decode()
		if err != nil {
			raw, _ := json.Marshal(r)
			out.Skipped = append(out.Skipped, SkippedRow{Raw: string(raw), Reason: err.Error()})
			continue
		}
		out.Activities = append(out.Activities, a)
	}
	return out, nil
}

func (r activityRecord) decode() (core.Activity, error) {
	if r.ID == "" {
		return core.Activity{}, fmt.Errorf("%w: record has no id", core.ErrFormat)
	}
	start, err := core.ParseDate(r.StartDate)
	if err != nil {
		return core.Activity{}, err
	}
	end, err := core.ParseDate(r.EndDate)
	if err != nil {
		return core.Activity{}, err
	}
	return core.Activity{
		ID:          r.ID,
		Name:        r.Name,
		Start:       start,
		End:         end,
		Category:    r.Category,
		Priority:    core.Priority(r.Priority),
		Description: r.Description,
		CreatedAt:   core.ParseDateTimeOrNow(r.CreatedAt),
	}, nil
}
