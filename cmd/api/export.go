package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/farxc/envelopa-irregularidades/internal/export"
)

// handleExportWorkbook always returns a workbook; a failed report yields only
// the summary sheet with the error message and the X-Report-Failed header.
func (app *application) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())

	data, err := export.Bytes(rep)
	if err != nil {
		app.logger.Error(component, "Failed to export report %s: %v", rep.ID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to export report")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(rep)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Report-Failed", strconv.FormatBool(rep.Failed))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		app.logger.Warn(component, "Failed to send workbook for report %s: %v", rep.ID, err)
	}
}
