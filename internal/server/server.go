package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"studykart/internal/app"
	"studykart/internal/ratelimit"
	"studykart/internal/token"
	"studykart/internal/util"
	"studykart/pkg/record"
	"studykart/pkg/storage"
)

const maxBodyBytes = 1 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App     *app.App
	Tokens  *token.Manager
	Limiter *ratelimit.FixedWindowLimiter
	// MaxUploadBytes caps multipart upload bodies; zero means the
	// default of 64 MiB.
	MaxUploadBytes int64
}

// Server exposes the REST API.
type Server struct {
	app       *app.App
	tokens    *token.Manager
	limiter   *ratelimit.FixedWindowLimiter
	maxUpload int64
	mux       *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:       cfg.App,
		tokens:    cfg.Tokens,
		limiter:   cfg.Limiter,
		maxUpload: cfg.MaxUploadBytes,
		mux:       http.NewServeMux(),
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUploadBytes
	}
	s.routes()
	return s
}

// Router returns the handler wrapped in the standard middleware chain.
func (s *Server) Router() http.Handler {
	var h http.Handler = s.mux
	h = util.WithCORS(h)
	h = util.WithSecurityHeaders(h)
	h = util.WithRequestLog(h)
	h = util.WithRequestID(h)
	return h
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.rateLimited(s.handleRegister))
	s.mux.HandleFunc("/api/auth/login", s.rateLimited(s.handleLogin))
	s.mux.Handle("/api/auth/me", s.authenticated(s.handleMe))
	s.mux.Handle("/api/auth/update", s.authenticated(s.handleUpdateProfile))

	// users (admin)
	s.mux.Handle("/api/users", s.adminOnly(s.handleAdminUsers))
	s.mux.Handle("/api/users/stats", s.adminOnly(s.handleUserStats))
	s.mux.Handle("/api/users/", s.adminOnly(s.handleUserByPhone))

	// content
	s.mux.HandleFunc("/api/content", s.handleContent)
	s.mux.Handle("/api/content/admin", s.adminOnly(s.handleAdminContent))
	s.mux.Handle("/api/content/stats", s.adminOnly(s.handleContentStats))
	s.mux.HandleFunc("/api/content/", s.handleContentByID)

	// pricing
	s.mux.HandleFunc("/api/pricing", s.handlePricing)
	s.mux.Handle("/api/pricing/seed", s.adminOnly(s.handleSeedPricing))
	s.mux.HandleFunc("/api/pricing/", s.handlePricingByClass)

	// orders
	s.mux.Handle("/api/orders", s.authenticated(s.handleOrders))
	s.mux.Handle("/api/orders/admin", s.adminOnly(s.handleAdminOrders))
	s.mux.Handle("/api/orders/stats", s.adminOnly(s.handleOrderStats))
	s.mux.Handle("/api/orders/", s.authenticated(s.handleOrderByID))

	// reviews
	s.mux.HandleFunc("/api/reviews", s.handleReviews)
	s.mux.Handle("/api/reviews/", s.adminOnly(s.handleReviewByID))

	// notifications
	s.mux.HandleFunc("/api/notifications", s.handleNotifications)

	// uploads
	s.mux.Handle("/api/upload", s.adminOnly(s.handleDeleteUpload))
	s.mux.Handle("/api/upload/presigned", s.adminOnly(s.handlePresignUpload))
	s.mux.Handle("/api/upload/pdf", s.adminOnly(s.uploadHandler(storage.FolderPDFs)))
	s.mux.Handle("/api/upload/video", s.adminOnly(s.uploadHandler(storage.FolderVideos)))
	s.mux.Handle("/api/upload/thumbnail", s.adminOnly(s.uploadHandler(storage.FolderThumbnails)))
	s.mux.Handle("/api/upload/download", s.authenticated(s.handleDownloadURL))

	// admin
	s.mux.Handle("/api/admin/dashboard", s.adminOnly(s.handleDashboard))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers

type authHandler func(http.ResponseWriter, *http.Request, token.Claims)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, claims)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, claims token.Claims) {
		if claims.Role != app.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, claims)
	})
}

func (s *Server) authorize(r *http.Request) (token.Claims, bool) {
	raw, ok := bearerToken(r)
	if !ok {
		return token.Claims{}, false
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return token.Claims{}, false
	}
	return claims, true
}

// rateLimited guards an endpoint per client IP. With no limiter
// configured the endpoint is open.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(util.ClientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if raw == "" {
		return "", false
	}
	return raw, true
}

// request plumbing

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func decodeRecord(r *http.Request) (record.Record, error) {
	var rec record.Record
	if err := decodeBody(r, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// queryFilters collects the named query parameters plus the reserved
// search parameter into a filter map.
func queryFilters(q url.Values, names ...string) map[string]string {
	filters := make(map[string]string)
	for _, name := range names {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			filters[name] = v
		}
	}
	if v := strings.TrimSpace(q.Get(record.SearchFilter)); v != "" {
		filters[record.SearchFilter] = v
	}
	return filters
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeList(w http.ResponseWriter, items []record.Record) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// writeAppError maps application errors onto HTTP statuses. Unmapped
// errors are logged and reported as opaque 500s.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, record.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, record.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		util.LoggerFromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
