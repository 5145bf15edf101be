package server

import (
	"net/http"

	"github.com/aniflux/aniflux/log"
)

// cors applies the permissive cross-origin policy the player UI depends on.
// OPTIONS preflights are answered directly with 204.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recovered guarantees that no internal panic escapes the boundary: the caller
// always receives a well-formed result body.
func recovered(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf("server: recovered panic in %s: %v", r.URL.Path, rec)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"ok":      false,
					"urls":    []any{},
					"message": "internal error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
