// Package server wires middleware, routes, and timeouts into a runnable
// HTTP server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/config"
	"github.com/hongminglow/passvault-be/internal/http/handlers"
	"github.com/hongminglow/passvault-be/internal/middleware"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New mounts the API under /api/users and returns a ready server.
func New(cfg config.Config, h *handlers.Handler, tokens *auth.TokenManager, logger *zap.Logger) *Server {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.WithRequestLogging(logger))

	health := handlers.NewHealthHandler(time.Now())
	r.Get("/health", health.Handle)

	r.Route("/api/users", func(r chi.Router) {
		// Public endpoints
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/token/refresh", h.RefreshToken)

		// Protected group: requires a valid bearer access token
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/me", h.Me)
			r.Get("/send-otp-email", h.SendOTPEmail)
			r.Get("/verify-otp", h.VerifyOTP)
			r.Post("/add_password", h.AddPassword)
			r.Post("/image-upload", h.ImageUpload)
			r.Post("/verify-face-id", h.VerifyFaceID)
		})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
