package main

import (
	"fmt"
	"net/http"
	"strconv"
)

const maxBarLimit = 500

// parseLimit reads ?limit=, falling back to def when it is absent.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxBarLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", maxBarLimit)
	}
	return limit, nil
}
