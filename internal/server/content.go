package server

import (
	"net/http"
	"strings"

	"studykart/internal/token"
)

// handleContent serves the public catalog listing and admin creation on
// the collection path.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filters := queryFilters(r.URL.Query(), "classId", "board", "type", "subject")
		items, err := s.app.ListPublishedContent(r.Context(), filters)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeList(w, items)
	case http.MethodPost:
		s.adminOnly(s.handleCreateContent).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	input, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item, err := s.app.CreateContent(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleContentByID routes /api/content/{id} and /api/content/{id}/status.
func (s *Server) handleContentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/content/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		http.NotFound(w, r)
		return
	}

	if action == "status" {
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ token.Claims) {
			item, err := s.app.ToggleContentStatus(r.Context(), id)
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
		}).ServeHTTP(w, r)
		return
	}
	if action != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := s.app.GetContent(r.Context(), id)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ token.Claims) {
			changes, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			item, err := s.app.UpdateContent(r.Context(), id, changes)
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
		}).ServeHTTP(w, r)
	case http.MethodDelete:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ token.Claims) {
			if err := s.app.DeleteContent(r.Context(), id); err != nil {
				writeAppError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdminContent(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	filters := queryFilters(r.URL.Query(), "classId", "board", "type", "subject", "status")
	items, err := s.app.ListContentAdmin(r.Context(), filters)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeList(w, items)
}
