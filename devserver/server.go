// Package devserver is a development stand-in for the production backend.
// It serves the documented auth and catalog endpoints against in-memory
// state so the SDK and CLI can run without real infrastructure.
package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/videoflix/videoflix-client/internal/config"
	"github.com/videoflix/videoflix-client/videos"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"

	defaultSecret = "videoflix-dev-secret"
)

// Server holds the stub backend state and its HTTP surface.
type Server struct {
	log      zerolog.Logger
	cors     config.CorsConfig
	accounts AccountRepo
	tokens   *tokenIssuer
	catalog  []videos.Video
	nowTime  func() time.Time
	secret   string

	handler http.Handler
}

// Options defines a function type to modify the Server instance.
type Options func(*Server)

// WithLogger sets the structured logger (defaults to a no-op logger).
func WithLogger(log zerolog.Logger) Options {
	return func(s *Server) {
		s.log = log
	}
}

// WithNowTime overrides the clock, primarily for testing.
func WithNowTime(nowTime func() time.Time) Options {
	return func(s *Server) {
		s.nowTime = nowTime
	}
}

// WithSecret overrides the token signing secret.
func WithSecret(secret string) Options {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithAccountRepo replaces the default in-memory account store.
func WithAccountRepo(repo AccountRepo) Options {
	return func(s *Server) {
		s.accounts = repo
	}
}

// WithCatalog replaces the seeded video catalog.
func WithCatalog(catalog []videos.Video) Options {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// WithCorsConfig replaces the CORS policy.
func WithCorsConfig(cors config.CorsConfig) Options {
	return func(s *Server) {
		s.cors = cors
	}
}

// New creates the devserver with its route table wired.
func New(options ...Options) *Server {
	s := &Server{
		log:      zerolog.Nop(),
		cors:     config.Cors{},
		accounts: NewInMemoryAccountRepo(),
		catalog:  seedCatalog(),
		nowTime:  time.Now,
		secret:   defaultSecret,
	}
	for _, opt := range options {
		opt(s)
	}
	s.tokens = newTokenIssuer(s.secret, s.nowTime)
	s.handler = s.routes()
	return s
}

// Accounts exposes the account store for seeding.
func (s *Server) Accounts() AccountRepo {
	return s.accounts
}

// Handler returns the complete HTTP surface.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return ChainMiddleware(h, s.LoggingMiddleware, s.RecoverMiddleware, s.CorsMiddleware)
	}

	mux.HandleFunc("POST /login/", api(s.loginHandler))
	mux.HandleFunc("POST /register/", api(s.registerHandler))
	mux.HandleFunc("POST /logout/", api(s.logoutHandler))
	mux.HandleFunc("POST /token/refresh/", api(s.tokenRefreshHandler))
	mux.HandleFunc("POST /password_reset/", api(s.passwordResetHandler))
	mux.HandleFunc("POST /password_confirm/{uid}/{token}/", api(s.passwordConfirmHandler))
	mux.HandleFunc("GET /activate/{uid}/{token}/", api(s.activateHandler))
	mux.HandleFunc("GET /video/", api(s.videoListHandler))
	mux.HandleFunc("OPTIONS /", api(func(w http.ResponseWriter, r *http.Request) {}))

	// The production backend serves under /api; the same surface is kept
	// reachable at the root for tests and direct use.
	outer := http.NewServeMux()
	outer.Handle("/api/", http.StripPrefix("/api", mux))
	outer.Handle("/", mux)
	return outer
}

// ChainMiddleware wraps a handler in the middleware, applied in reverse so
// the first listed runs outermost.
func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Any("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "Internal server error"})
			}
		}()
		next(w, r)
	}
}

func (s *Server) CorsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// No Origin header = same-origin request, no CORS headers needed
		if origin == "" {
			next(w, r)
			return
		}

		allowedOrigins := s.cors.GetAllowedOrigins()
		if !allowedOrigins.IsAllowedOrigin(origin) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", s.cors.GetAllowedMethods())
			w.Header().Set("Access-Control-Allow-Headers", s.cors.GetAllowedHeaders())
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}
