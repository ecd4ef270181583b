package transfer

import (
	"errors"
	"strings"
	"testing"

	"timeline/internal/core"
)

func TestExportCSV(t *testing.T) {
	created, _ := core.ParseDateTime("2025-04-30 08:00:00")
	acts := []core.Activity{
		{ID: "a", Name: "One", Start: core.NewDate(2025, 1, 1), End: core.NewDate(2025, 1, 2), Category: "Work", Priority: core.High, CreatedAt: created},
	}
	data, err := ExportCSV(acts)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count: %d", len(lines))
	}
	if lines[0] != "id,name,start_date,end_date,category,priority,description,created_at" {
		t.Fatalf("header: %q", lines[0])
	}
	if lines[1] != "a,One,2025-01-01,2025-01-02,Work,High,,2025-04-30 08:00:00" {
		t.Fatalf("row: %q", lines[1])
	}
}

func TestImportCSVRecoverPerRow(t *testing.T) {
	doc := strings.Join([]string{
		"id,name,start_date,end_date,category,priority,description,created_at",
		"id1,Good,2025-01-01,2025-01-02,Work,High,,2025-04-30 08:00:00",
		"id2,BadEnd,2025-01-01,never,Work,High,,",
		"id3,AlsoGood,2025-02-01,2025-02-02,Home,Low,,",
	}, "\n")

	acts, rowErrs, err := ImportCSV([]byte(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("imported: got %d want 2", len(acts))
	}
	if acts[0].ID != "id1" || acts[1].ID != "id3" {
		t.Fatalf("ids: %v %v", acts[0].ID, acts[1].ID)
	}
	if len(rowErrs) != 1 || rowErrs[0].Line != 3 {
		t.Fatalf("row errors: %+v", rowErrs)
	}
	if !strings.Contains(rowErrs[0].Reason, "never") {
		t.Fatalf("reason should name the value: %q", rowErrs[0].Reason)
	}
}

func TestImportCSVAssignsMissingIDs(t *testing.T) {
	doc := strings.Join([]string{
		"name,start_date,end_date",
		"NoID,2025-01-01,2025-01-02",
		",2025-02-01,2025-02-02",
	}, "\n")
	acts, rowErrs, err := ImportCSV([]byte(doc))
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("import: %v errs=%v", err, rowErrs)
	}
	if len(acts) != 2 {
		t.Fatalf("imported: %d", len(acts))
	}
	if acts[0].ID == "" || acts[1].ID == "" || acts[0].ID == acts[1].ID {
		t.Fatalf("generated ids: %q %q", acts[0].ID, acts[1].ID)
	}
	if acts[0].CreatedAt.IsZero() {
		t.Fatalf("created_at fallback missing")
	}
}

func TestImportCSVSkipsBlankRows(t *testing.T) {
	doc := "id,name,start_date,end_date\nid1,A,2025-01-01,2025-01-01\n,,,\n\n"
	acts, rowErrs, err := ImportCSV([]byte(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(acts) != 1 || len(rowErrs) != 0 {
		t.Fatalf("blank rows should be silent: acts=%d errs=%v", len(acts), rowErrs)
	}
}

func TestImportCSVBadHeader(t *testing.T) {
	cases := []string{
		"",
		"id,name\nid1,A",
	}
	for i, doc := range cases {
		if _, _, err := ImportCSV([]byte(doc)); !errors.Is(err, core.ErrSchema) {
			t.Fatalf("case %d expected schema error, got %v", i, err)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	created, _ := core.ParseDateTime("2025-04-30 08:00:00")
	orig := []core.Activity{
		{ID: "a", Name: "With, comma", Start: core.NewDate(2025, 1, 1), End: core.NewDate(2025, 1, 2), Category: "Work", Priority: core.High, Description: "line\nbreak", CreatedAt: created},
	}
	data, err := ExportCSV(orig)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	back, rowErrs, err := ImportCSV(data)
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("import: %v errs=%v", err, rowErrs)
	}
	if len(back) != 1 || back[0].Name != "With, comma" || back[0].Description != "line\nbreak" {
		t.Fatalf("round trip: %+v", back)
	}
}
