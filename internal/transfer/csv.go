// Package transfer converts between the in-memory collections and the
// interchange formats: CSV, the zip bundle and the xlsx workbook snapshot.
// Bulk imports recover per row: one bad record never aborts the batch.
package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"timeline/internal/core"
	"timeline/internal/tables"
)

// RowError records one input row that could not be imported.
type RowError struct {
	Line   int
	Raw    string
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d (%s): %s", e.Line, e.Raw, e.Reason)
}

// ExportCSV renders the activities as CSV in the canonical column order,
// header included.
func ExportCSV(acts []core.Activity) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tables.ActivityColumns); err != nil {
		return nil, err
	}
	for _, a := range acts {
		if err := w.Write(tables.EncodeActivityRow(a)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportCSV parses activity rows one at a time. Rows with a missing or
// unparseable start or end date are skipped and reported; a missing id gets
// a fresh one and a missing created_at the current time. The result is meant
// to be appended to the existing collection, not to replace it.
func ImportCSV(data []byte) ([]core.Activity, []RowError, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // rows may have fewer or extra columns

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: CSV has no header row", core.ErrSchema)
	}
	dec, err := tables.NewRowDecoder(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		acts    []core.Activity
		rowErrs []RowError
		line    = 1
	)
	for {
		line++
		cols, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Raw: "", Reason: err.Error()})
			continue
		}
		if isBlankRow(cols) {
			continue
		}
		a, err := dec.Decode(cols)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Raw: tables.RawRow(cols), Reason: err.Error()})
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		acts = append(acts, a)
	}
	return acts, rowErrs, nil
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
