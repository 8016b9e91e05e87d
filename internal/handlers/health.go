package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	applog "formulary/internal/log"
)

const (
	catalogConfigured = "configured"
	catalogMissing    = "missing"
)

type healthResponse struct {
	Status  string    `json:"status"`
	Catalog string    `json:"catalog"`
	Time    time.Time `json:"time"`
}

// Health reports liveness and whether a catalog address is configured. A
// missing address does not fail the check: every view renders the error
// itself.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Catalog: catalogMissing,
		Time:    time.Now().UTC(),
	}
	if client.Configured() {
		resp.Catalog = catalogConfigured
	}
	applog.Debug(r.Context(), "health check requested", "method", r.Method, "catalog", resp.Catalog)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
