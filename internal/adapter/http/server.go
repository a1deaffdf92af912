// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"go.uber.org/zap"

	"blogpessoal/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	users   *app.UserService
	posts   *app.PostService
	authSvc *app.AuthService
	log     *zap.Logger

	oidcConfig   *OIDCConfig
	metrics      *Metrics
	loginLimiter *RateLimiter
}

// New creates a Server wired to the given application services.
func New(users *app.UserService, posts *app.PostService, authSvc *app.AuthService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		users:      users,
		posts:      posts,
		authSvc:    authSvc,
		log:        log,
		oidcConfig: &OIDCConfig{},
	}
}

// WithOIDC enables single sign-on through an OpenID Connect provider.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithMetrics records request metrics and serves them on /metrics.
func (s *Server) WithMetrics(m *Metrics) *Server {
	s.metrics = m
	return s
}

// WithLoginLimiter throttles POST /usuarios/logar per client IP.
func (s *Server) WithLoginLimiter(l *RateLimiter) *Server {
	s.loginLimiter = l
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	protected := func(h http.HandlerFunc) http.Handler {
		return s.authMiddleware(h)
	}

	mux.HandleFunc("POST /usuarios/cadastrar", s.handleUserRegister)
	mux.Handle("POST /usuarios/logar", s.rateLimitMiddleware(http.HandlerFunc(s.handleLogin)))
	mux.Handle("POST /usuarios/logout", protected(s.handleLogout))
	mux.HandleFunc("GET /usuarios/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /usuarios/sso/callback", s.handleSSOCallback)
	mux.Handle("PUT /usuarios/atualizar", protected(s.handleUserUpdate))
	mux.Handle("GET /usuarios/all", protected(s.handleUserList))
	mux.Handle("GET /usuarios/{id}", protected(s.handleUserGet))

	mux.Handle("GET /postagens", protected(s.handlePostList))
	mux.Handle("GET /postagens/{id}", protected(s.handlePostGet))
	mux.Handle("GET /postagens/titulo/{titulo}", protected(s.handlePostSearch))
	mux.Handle("POST /postagens", protected(s.handlePostCreate))
	mux.Handle("PUT /postagens", protected(s.handlePostUpdate))
	mux.Handle("DELETE /postagens/{id}", protected(s.handlePostDelete))

	var h http.Handler = withNoCache(mux)
	if s.metrics != nil {
		h = s.metrics.Middleware(h)
	}
	return s.loggingMiddleware(h)
}
