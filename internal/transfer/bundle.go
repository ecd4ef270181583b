package transfer

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"timeline/internal/core"
	"timeline/internal/tables"
)

// ExportBundle packs both collections into a zip archive holding exactly the
// two canonical JSON documents, under the same names the local backend uses.
// The bundle is the full-state transfer format between backends.
func ExportBundle(acts []core.Activity, cats *core.CategorySet) ([]byte, error) {
	actsJSON, err := tables.MarshalActivitiesJSON(acts)
	if err != nil {
		return nil, fmt.Errorf("encode activities: %w", err)
	}
	catsJSON, err := json.MarshalIndent(cats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range []struct {
		name string
		data []byte
	}{
		{tables.ActivitiesFileName, actsJSON},
		{tables.CategoriesFileName, catsJSON},
	} {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, fmt.Errorf("create bundle entry %s: %w", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			return nil, fmt.Errorf("write bundle entry %s: %w", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportBundle unpacks a bundle produced by ExportBundle. Both entries must
// be present. Activity records follow the tolerant read policy; skipped
// records are reported as row errors.
func ImportBundle(data []byte) ([]core.Activity, *core.CategorySet, []RowError, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: not a zip archive: %v", core.ErrSchema, err)
	}

	actsJSON, err := readEntry(zr, tables.ActivitiesFileName)
	if err != nil {
		return nil, nil, nil, err
	}
	catsJSON, err := readEntry(zr, tables.CategoriesFileName)
	if err != nil {
		return nil, nil, nil, err
	}

	load, err := tables.UnmarshalActivitiesJSON(actsJSON)
	if err != nil {
		return nil, nil, nil, err
	}
	var rowErrs []RowError
	for _, skip := range load.Skipped {
		rowErrs = append(rowErrs, RowError{Raw: skip.Raw, Reason: skip.Reason})
	}

	cats, err := ImportCategoriesJSON(catsJSON)
	if err != nil {
		return nil, nil, nil, err
	}
	return load.Activities, cats, rowErrs, nil
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: bundle is missing %s", core.ErrSchema, name)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read bundle entry %s: %v", core.ErrSchema, name, err)
	}
	return data, nil
}
