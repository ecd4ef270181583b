package transfer

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"timeline/internal/core"
	"timeline/internal/tables"
)

func sampleState() ([]core.Activity, *core.CategorySet) {
	created, _ := core.ParseDateTime("2025-04-30 08:00:00")
	acts := []core.Activity{
		{ID: "a", Name: "One", Start: core.NewDate(2025, 1, 1), End: core.NewDate(2025, 1, 2), Category: "Work", Priority: core.High, CreatedAt: created},
		{ID: "b", Name: "Two", Start: core.NewDate(2025, 2, 1), End: core.NewDate(2025, 2, 1), Priority: core.Low, CreatedAt: created},
	}
	cats := core.NewCategorySet(
		core.Category{Name: "Work", Color: "#FF0000"},
		core.Category{Name: "Other", Color: core.DefaultColor},
	)
	return acts, cats
}

func TestBundleRoundTrip(t *testing.T) {
	acts, cats := sampleState()
	data, err := ExportBundle(acts, cats)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	backActs, backCats, rowErrs, err := ImportBundle(data)
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("import: %v errs=%v", err, rowErrs)
	}
	if len(backActs) != 2 || backActs[0].ID != "a" || backActs[1].Name != "Two" {
		t.Fatalf("activities: %+v", backActs)
	}
	if backCats.Len() != 2 || backCats.Color("Work") != "#FF0000" {
		t.Fatalf("categories: %v", backCats.Entries())
	}
	if backCats.Names()[0] != "Work" {
		t.Fatalf("category order lost: %v", backCats.Names())
	}
}

func TestExportBundleHoldsExactlyTwoEntries(t *testing.T) {
	acts, cats := sampleState()
	data, err := ExportBundle(acts, cats)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entries: %d", len(zr.File))
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names[tables.ActivitiesFileName] || !names[tables.CategoriesFileName] {
		t.Fatalf("entry names: %v", names)
	}
}

func TestImportBundleRejectsNonZip(t *testing.T) {
	if _, _, _, err := ImportBundle([]byte("not a zip")); !errors.Is(err, core.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestImportBundleMissingEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create(tables.ActivitiesFileName)
	w.Write([]byte(`[]`))
	zw.Close()

	if _, _, _, err := ImportBundle(buf.Bytes()); !errors.Is(err, core.ErrSchema) {
		t.Fatalf("expected schema error for missing categories entry, got %v", err)
	}
}

func TestImportBundleReportsBadRecords(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create(tables.ActivitiesFileName)
	w.Write([]byte(`[
		{"id": "ok", "name": "Good", "start_date": "2025-01-01", "end_date": "2025-01-02"},
		{"id": "bad", "name": "Bad", "start_date": "nope", "end_date": "2025-01-02"}
	]`))
	w, _ = zw.Create(tables.CategoriesFileName)
	w.Write([]byte(`{"Work": "#FF0000"}`))
	zw.Close()

	acts, cats, rowErrs, err := ImportBundle(buf.Bytes())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(acts) != 1 || len(rowErrs) != 1 {
		t.Fatalf("tolerant import: acts=%d errs=%d", len(acts), len(rowErrs))
	}
	if cats.Len() != 1 {
		t.Fatalf("categories: %v", cats.Entries())
	}
}

func TestBundleIdempotent(t *testing.T) {
	acts, cats := sampleState()
	first, err := ExportBundle(acts, cats)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	backActs, backCats, _, err := ImportBundle(first)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	second, err := ExportBundle(backActs, backCats)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	againActs, againCats, _, err := ImportBundle(second)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(againActs) != len(acts) || againCats.Len() != cats.Len() {
		t.Fatalf("state drifted across round trips")
	}
}
