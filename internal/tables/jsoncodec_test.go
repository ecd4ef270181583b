package tables

import (
	"errors"
	"strings"
	"testing"

	"timeline/internal/core"
)

func TestActivitiesJSONRoundTrip(t *testing.T) {
	created, _ := core.ParseDateTime("2025-04-30 08:00:00")
	acts := []core.Activity{
		{ID: "a", Name: "One", Start: core.NewDate(2025, 1, 1), End: core.NewDate(2025, 1, 2), Category: "Work", Priority: core.High, CreatedAt: created},
		{ID: "b", Name: "Two", Start: core.NewDate(2025, 2, 1), End: core.NewDate(2025, 2, 1), Priority: core.Low, Description: "d", CreatedAt: created},
	}
	data, err := MarshalActivitiesJSON(acts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	load, err := UnmarshalActivitiesJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(load.Skipped) != 0 {
		t.Fatalf("unexpected skips: %v", load.Skipped)
	}
	if len(load.Activities) != 2 || load.Activities[0].ID != "a" || load.Activities[1].Description != "d" {
		t.Fatalf("round trip mismatch: %+v", load.Activities)
	}
}

func TestUnmarshalActivitiesJSONTolerance(t *testing.T) {
	doc := `[
		{"id": "ok", "name": "Good", "start_date": "2025-01-01", "end_date": "2025-01-02", "priority": "High"},
		{"id": "", "name": "NoID", "start_date": "2025-01-01", "end_date": "2025-01-02"},
		{"id": "bad", "name": "BadDate", "start_date": "nope", "end_date": "2025-01-02"},
		{"id": "late", "name": "NoCreated", "start_date": "2025-03-01", "end_date": "2025-03-01", "created_at": "garbage"}
	]`
	load, err := UnmarshalActivitiesJSON([]byte(doc))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(load.Activities) != 2 {
		t.Fatalf("expected 2 kept activities, got %d", len(load.Activities))
	}
	if len(load.Skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", len(load.Skipped))
	}
	// Bad created_at does not fail the record, it is replaced.
	if load.Activities[1].CreatedAt.IsZero() {
		t.Fatalf("created_at fallback missing")
	}
	// Skip reasons mention the offending field.
	if !strings.Contains(load.Skipped[0].Reason, "id") {
		t.Fatalf("skip reason: %q", load.Skipped[0].Reason)
	}
}

func TestUnmarshalActivitiesJSONRejectsNonArray(t *testing.T) {
	for i, doc := range []string{`{}`, `"x"`, `42`, `not json`} {
		if _, err := UnmarshalActivitiesJSON([]byte(doc)); !errors.Is(err, core.ErrSchema) {
			t.Fatalf("case %d expected schema error, got %v", i, err)
		}
	}
}

func TestUnmarshalActivitiesJSONEmptyArray(t *testing.T) {
	load, err := UnmarshalActivitiesJSON([]byte(`[]`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(load.Activities) != 0 || len(load.Skipped) != 0 {
		t.Fatalf("expected empty load, got %+v", load)
	}
}
