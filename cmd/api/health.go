package main

import (
	"context"
	"net/http"
	"time"
)

// @Summary		Health check
// @Description	returns the status of the service and of its database
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]string
// @Failure		503	{object}	map[string]string
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {

	data := map[string]string{
		"status":   "available",
		"version":  "0.1.0",
		"database": "up",
	}
	status := http.StatusOK

	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Warn(component, "Health check could not reach database: %v", err)
			data["status"] = "degraded"
			data["database"] = "down"
			status = http.StatusServiceUnavailable
		}
	}

	if err := writeJSON(w, status, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
