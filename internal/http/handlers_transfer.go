package http

import (
	"net/http"

	applog "timeline/internal/log"
	"timeline/internal/transfer"
)

type importResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

func rowErrorStrings(rowErrs []transfer.RowError) []string {
	out := make([]string, 0, len(rowErrs))
	for _, e := range rowErrs {
		out = append(out, e.String())
	}
	return out
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := transfer.ExportCSV(s.activities.Activities())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="activities.csv"`)
	_, _ = w.Write(data)
}

func (s *Server) handleExportBundle(w http.ResponseWriter, r *http.Request) {
	data, err := transfer.ExportBundle(s.activities.Activities(), s.categories.Set())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="timeline_bundle.zip"`)
	_, _ = w.Write(data)
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	data, err := transfer.ExportWorkbook(s.activities.Activities(), s.categories.Set())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="timeline_data.xlsx"`)
	_, _ = w.Write(data)
}

// handleImportCSV appends the parsed rows to the current collection; rows
// that fail to parse are reported back, never aborting the import.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	acts, rowErrs, err := transfer.ImportCSV(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.activities.AppendImported(r.Context(), acts)
	applog.FromContext(r.Context()).Info("CSV import finished",
		applog.FieldOperation, applog.OpImport,
		applog.FieldCount, len(acts),
		applog.FieldSkipped, len(rowErrs))
	writeJSON(w, http.StatusOK, importResult{Imported: len(acts), Errors: rowErrorStrings(rowErrs)})
}

// handleImportBundle restores a full-state snapshot from a bundle archive.
// Like the workbook import this is a full replace of both collections.
func (s *Server) handleImportBundle(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	acts, cats, rowErrs, err := transfer.ImportBundle(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.categories.ReplaceAll(r.Context(), cats); err != nil {
		writeError(w, r, err)
		return
	}
	s.activities.ReplaceAll(r.Context(), acts)
	applog.FromContext(r.Context()).Info("Bundle snapshot applied",
		applog.FieldOperation, applog.OpImport,
		applog.FieldCount, len(acts),
		applog.FieldSkipped, len(rowErrs))
	writeJSON(w, http.StatusOK, importResult{Imported: len(acts), Errors: rowErrorStrings(rowErrs)})
}

// handleImportWorkbook replaces the whole in-memory state with the uploaded
// snapshot, then persists both collections. Nothing is applied when either
// required sheet is missing or the category set comes back empty.
func (s *Server) handleImportWorkbook(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	acts, cats, rowErrs, err := transfer.ImportWorkbook(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.categories.ReplaceAll(r.Context(), cats); err != nil {
		writeError(w, r, err)
		return
	}
	s.activities.ReplaceAll(r.Context(), acts)
	applog.FromContext(r.Context()).Info("Workbook snapshot applied",
		applog.FieldOperation, applog.OpImport,
		applog.FieldCount, len(acts),
		applog.FieldSkipped, len(rowErrs))
	writeJSON(w, http.StatusOK, importResult{Imported: len(acts), Errors: rowErrorStrings(rowErrs)})
}

// handleImportCategoriesJSON replaces the category collection with the
// uploaded flat name-to-color object.
func (s *Server) handleImportCategoriesJSON(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cats, err := transfer.ImportCategoriesJSON(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.categories.ReplaceAll(r.Context(), cats); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResult{Imported: cats.Len()})
}
