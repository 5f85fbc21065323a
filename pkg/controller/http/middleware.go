package http

import (
	"net/http"
)

// readinessChecker reports whether the initial load finished
type readinessChecker interface {
	Ready() bool
}

// readyOnly answers 503 until the platform is initialized
func readyOnly(app readinessChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !app.Ready() {
				writeJSON(w, r, http.StatusServiceUnavailable, statusResponse{Status: statusInitializing})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
