package transfer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"timeline/internal/core"
	"timeline/internal/tables"
)

// Worksheet names required in a workbook snapshot.
const (
	workbookActivitiesSheet = "Activities"
	workbookCategoriesSheet = "Categories"
)

// ExportWorkbook renders both collections as an xlsx workbook with one sheet
// per table, suitable for offline editing and later re-import.
func ExportWorkbook(acts []core.Activity, cats *core.CategorySet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(workbookActivitiesSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := setRow(f, workbookActivitiesSheet, 1, tables.ActivityColumns); err != nil {
		return nil, err
	}
	for i, a := range acts {
		if err := setRow(f, workbookActivitiesSheet, i+2, tables.EncodeActivityRow(a)); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(workbookCategoriesSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := setRow(f, workbookCategoriesSheet, 1, tables.CategoryColumns); err != nil {
		return nil, err
	}
	for i, e := range cats.Entries() {
		if err := setRow(f, workbookCategoriesSheet, i+2, []string{e.Name, e.Color}); err != nil {
			return nil, err
		}
	}

	// Drop the default sheet so the workbook holds exactly the two tables.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportWorkbook parses a workbook snapshot. Both named sheets must be
// present or the import fails with a schema error; on success the returned
// collections are a full replacement for the in-memory state. Activity rows
// follow the CSV recovery policy: bad dates skip the row, a missing id gets
// a fresh one, a missing created_at the current time.
func ImportWorkbook(data []byte) ([]core.Activity, *core.CategorySet, []RowError, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: not an xlsx workbook: %v", core.ErrSchema, err)
	}
	defer f.Close()

	for _, sheet := range []string{workbookActivitiesSheet, workbookCategoriesSheet} {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx < 0 {
			return nil, nil, nil, fmt.Errorf("%w: workbook is missing the %q sheet", core.ErrSchema, sheet)
		}
	}

	acts, rowErrs, err := importWorkbookActivities(f)
	if err != nil {
		return nil, nil, nil, err
	}
	cats, err := importWorkbookCategories(f)
	if err != nil {
		return nil, nil, nil, err
	}
	return acts, cats, rowErrs, nil
}

func importWorkbookActivities(f *excelize.File) ([]core.Activity, []RowError, error) {
	rows, err := f.GetRows(workbookActivitiesSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s sheet: %v", core.ErrSchema, workbookActivitiesSheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	dec, err := tables.NewRowDecoder(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		acts    []core.Activity
		rowErrs []RowError
	)
	for i := 1; i < len(rows); i++ {
		cols := rows[i]
		if isBlankRow(cols) {
			continue
		}
		a, err := dec.Decode(cols)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: i + 1, Raw: tables.RawRow(cols), Reason: err.Error()})
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		acts = append(acts, a)
	}
	return acts, rowErrs, nil
}

func importWorkbookCategories(f *excelize.File) (*core.CategorySet, error) {
	rows, err := f.GetRows(workbookCategoriesSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s sheet: %v", core.ErrSchema, workbookCategoriesSheet, err)
	}
	cats := core.NewCategorySet()
	for i := 1; i < len(rows); i++ {
		cols := rows[i]
		if len(cols) == 0 || strings.TrimSpace(cols[0]) == "" {
			continue
		}
		color := ""
		if len(cols) > 1 {
			color = strings.TrimSpace(cols[1])
		}
		_ = cats.Add(cols[0], color)
	}
	return cats, nil
}

func setRow(f *excelize.File, sheet string, row int, cols []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
