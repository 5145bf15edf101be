// Package server exposes the resolution engine over HTTP for the player UI.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aniflux/aniflux/key"
	"github.com/aniflux/aniflux/log"
	"github.com/aniflux/aniflux/resolver"
	"github.com/spf13/viper"
)

// Server is the HTTP boundary around a Resolver.
type Server struct {
	engine *resolver.Resolver
	http   *http.Server
}

// New constructs a Server listening on the configured host and port.
func New(engine *resolver.Resolver) *Server {
	s := &Server{engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", s.handleResolve)
	mux.HandleFunc("/health", s.handleHealth)

	addr := net.JoinHostPort(viper.GetString(key.ServerHost), fmt.Sprint(viper.GetInt(key.ServerPort)))
	s.http = &http.Server{
		Addr:              addr,
		Handler:           recovered(cors(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Infof("server: listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// handleResolve implements GET /resolve?u64=<base64url>&referer=<urlencoded>&debug=0|1.
// A literal url parameter is accepted in place of u64. The response body is
// always a well-formed ResolutionResult.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, resolver.Result{
			OK: false, URLs: []resolver.Source{}, Message: "method not allowed",
		})
		return
	}

	q := r.URL.Query()

	target := ""
	switch {
	case q.Get("u64") != "":
		target = resolver.DecodeTarget(q.Get("u64"))
	case q.Get("url") != "":
		target = q.Get("url")
	default:
		writeJSON(w, http.StatusBadRequest, resolver.Result{
			OK: false, URLs: []resolver.Source{}, Message: "missing url or u64 parameter",
		})
		return
	}

	req := resolver.Request{
		TargetURL: target,
		Referer:   q.Get("referer"),
		Debug:     q.Get("debug") == "1",
	}

	writeJSON(w, http.StatusOK, s.engine.Resolve(r.Context(), req))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("server: encode response: %s", err)
	}
}
