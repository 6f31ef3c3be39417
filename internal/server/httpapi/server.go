// Package httpapi maps the authentication core onto HTTP routes and
// translates error kinds into response status codes. It carries no business
// rules of its own.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/microauth/internal/logging"
	"github.com/dmitrijs2005/microauth/internal/server/users"
)

type Server struct {
	address     string
	users       *users.Service
	logger      logging.Logger
	allowOrigin string
}

func NewServer(address string, l logging.Logger, us *users.Service, allowOrigin string) *Server {
	return &Server{
		address:     address,
		users:       us,
		logger:      l.With("module", "httpapi"),
		allowOrigin: allowOrigin,
	}
}

// Router builds the route table:
//
//	POST /sign-up
//	POST /sign-in
//	GET  /check-username/{username}
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.cors)

	r.Post("/sign-up", s.signUp)
	r.Post("/sign-in", s.signIn)
	r.Get("/check-username/{username}", s.checkUsername)

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
