// Package server exposes the profile service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/korryu3/github-profile-trophy/internal/domain"
)

// ProfileFetcher is the slice of the profile service the API needs.
type ProfileFetcher interface {
	RequestUserInfo(ctx context.Context, username string) (*domain.UserProfile, error)
}

// Server serves aggregated profiles as JSON.
type Server struct {
	logger   *log.Logger
	addr     string
	profiles ProfileFetcher
	httpSrv  *http.Server
}

// New wires the routes and returns a server ready to Start.
func New(logger *log.Logger, addr string, profiles ProfileFetcher) *Server {
	s := &Server{logger: logger, addr: addr, profiles: profiles}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Get("/api/users/{username}", s.handleUser())

	s.httpSrv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) Start() error {
	s.logger.Printf("http listen %s", s.addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if username == "" {
			http.Error(w, "missing username", http.StatusBadRequest)
			return
		}

		profile, err := s.profiles.RequestUserInfo(r.Context(), username)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			s.logger.Printf("profile request for %s failed: %v", username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	}
}
