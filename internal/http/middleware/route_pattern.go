package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern returns chi's matched route pattern, falling back to the raw
// path for unmatched requests. Patterns keep metric cardinality bounded:
// /api/airports/ENGM and /api/airports/EGGW both report /api/airports/{icao}.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
