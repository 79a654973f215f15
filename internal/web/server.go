package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/guides/internal/auth"
	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/service"
	"github.com/vbonduro/guides/internal/uploadstore"
)

// TokenIssuer issues and verifies the bearer tokens handed out at login.
type TokenIssuer interface {
	auth.Verifier
	Issue(u *domain.User) (string, error)
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Users     *service.UserService
	Guides    *service.GuideService
	Follows   *service.FollowService
	Templates *service.TemplateService
	Uploads   uploadstore.UploadStore
	Tokens    TokenIssuer
	Logger    *slog.Logger
}

type Server struct {
	users     *service.UserService
	guides    *service.GuideService
	follows   *service.FollowService
	templates *service.TemplateService
	uploads   uploadstore.UploadStore
	tokens    TokenIssuer
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
}

func NewServer(d Deps) *Server {
	s := &Server{
		users:     d.Users,
		guides:    d.Guides,
		follows:   d.Follows,
		templates: d.Templates,
		uploads:   d.Uploads,
		tokens:    d.Tokens,
		mux:       http.NewServeMux(),
		logger:    d.Logger,
	}
	s.registerRoutes()
	s.handler = requestLogger(s.logger, securityHeaders(auth.Middleware(s.tokens, s.logger)(s.mux)))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	s.mux.HandleFunc("POST /api/templates/draft", s.authed(s.handleDraftTemplate))

	s.mux.HandleFunc("GET /api/guides", s.handleListGuides)
	s.mux.HandleFunc("POST /api/guides", s.authed(s.handleCreateGuide))
	s.mux.HandleFunc("GET /api/guides/{id}", s.handleGetGuide)
	s.mux.HandleFunc("PUT /api/guides/{id}", s.authed(s.handleUpdateGuide))
	s.mux.HandleFunc("DELETE /api/guides/{id}", s.authed(s.handleDeleteGuide))
	s.mux.HandleFunc("POST /api/guides/{id}/like", s.authed(s.handleLike))
	s.mux.HandleFunc("DELETE /api/guides/{id}/like", s.authed(s.handleUnlike))
	s.mux.HandleFunc("POST /api/guides/{id}/favorite", s.authed(s.handleFavorite))
	s.mux.HandleFunc("DELETE /api/guides/{id}/favorite", s.authed(s.handleUnfavorite))
	s.mux.HandleFunc("GET /api/guides/{id}/comments", s.handleListComments)
	s.mux.HandleFunc("POST /api/guides/{id}/comments", s.authed(s.handleCreateComment))
	s.mux.HandleFunc("GET /api/guides/{id}/checkins", s.authed(s.handleListCheckIns))
	s.mux.HandleFunc("POST /api/guides/{id}/checkins", s.authed(s.handleUpsertCheckIn))

	s.mux.HandleFunc("GET /api/me", s.authed(s.handleMe))
	s.mux.HandleFunc("PATCH /api/me/username", s.authed(s.handleUpdateUsername))
	s.mux.HandleFunc("PATCH /api/me/password", s.authed(s.handleUpdatePassword))
	s.mux.HandleFunc("GET /api/me/guides", s.authed(s.handleMyGuides))
	s.mux.HandleFunc("GET /api/me/favorites", s.authed(s.handleMyFavorites))
	s.mux.HandleFunc("GET /api/me/checkins", s.authed(s.handleMyCheckIns))
	s.mux.HandleFunc("GET /api/me/following", s.authed(s.handleMyFollowing))
	s.mux.HandleFunc("GET /api/me/feed", s.authed(s.handleFeed))

	s.mux.HandleFunc("POST /api/users/{id}/follow", s.authed(s.handleFollow))
	s.mux.HandleFunc("DELETE /api/users/{id}/follow", s.authed(s.handleUnfollow))
	s.mux.HandleFunc("GET /api/users/{id}/following", s.handleIsFollowing)

	s.mux.HandleFunc("GET /api/admin/users", s.admin(s.handleAdminListUsers))
	s.mux.HandleFunc("PUT /api/admin/users/{id}", s.admin(s.handleAdminUpdateUser))
	s.mux.HandleFunc("PATCH /api/admin/users/{id}/status", s.admin(s.handleAdminSetStatus))
	s.mux.HandleFunc("POST /api/admin/users/{id}/reset-password", s.admin(s.handleAdminResetPassword))
	s.mux.HandleFunc("DELETE /api/admin/users/{id}", s.admin(s.handleAdminDeleteUser))

	s.mux.HandleFunc("POST /api/upload", s.authed(s.handleUpload))
	s.mux.HandleFunc("GET /uploads/{name}", s.handleGetUpload)

	s.mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, &httpError{status: http.StatusNotFound, message: "not found"})
	})

	for _, route := range Routes() {
		s.mux.HandleFunc("GET "+route.Pattern(), s.handlePage)
	}
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer returns an *http.Server for addr with the server's timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
