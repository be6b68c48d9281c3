package server

import (
	"net/http"
	"strings"

	"studykart/internal/token"
)

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	filters := queryFilters(r.URL.Query(), "classId", "board")
	users, err := s.app.ListUsers(r.Context(), filters)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeList(w, users)
}

func (s *Server) handleUserByPhone(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	phone := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if phone == "" || strings.Contains(phone, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	user, err := s.app.GetUserByPhone(r.Context(), phone)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.UserStats(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleContentStats(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.ContentStats(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleOrderStats(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.OrderStats(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.DashboardStats(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
