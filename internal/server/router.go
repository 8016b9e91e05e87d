package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"formulary/internal/handlers"
	applog "formulary/internal/log"
	"formulary/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

type route struct {
	pattern string
	handler http.HandlerFunc
}

var routes = []route{
	{"GET /healthz", handlers.Health},
	{"GET /{$}", handlers.Catalog},
	{"GET /formula/{id}", handlers.FormulaDetail},
	{"GET /applications", handlers.Applications},
	{"GET /applications/create", handlers.CreateApplication},
	{"GET /applications/{id}", handlers.ApplicationDetail},
	{"GET /applications/{id}/link-formulas", handlers.LinkFormulas},
	{"POST /applications/{id}/link-formulas", handlers.LinkFormulas},
	{"POST /preferences", handlers.UpdatePreferences},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	for _, r := range routes {
		mux.HandleFunc(r.pattern, r.handler)
		applog.Debug(context.Background(), "route registered", "pattern", r.pattern)
	}
	mux.Handle("GET /metrics", metrics.Handler())
	applog.Debug(context.Background(), "route registered", "pattern", "GET /metrics")
	return mux
}

// withRequestID tags every request with an id, reusing a well-formed inbound
// X-Request-ID, and attaches it to the request logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := applog.With(r.Context(), "requestID", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		applog.Debug(ctx, "request served", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start).String())
	})
}
