package server

import (
	"net/http"
	"strings"

	"studykart/internal/token"
)

// handleReviews serves public listing and submission.
func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filters := queryFilters(r.URL.Query(), "status", "studentClass")
		reviews, err := s.app.ListReviews(r.Context(), filters)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeList(w, reviews)
	case http.MethodPost:
		input, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		review, err := s.app.CreateReview(r.Context(), input)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, review)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleReviewByID(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	id := strings.TrimPrefix(r.URL.Path, "/api/reviews/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		changes, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		review, err := s.app.UpdateReview(r.Context(), id, changes)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, review)
	case http.MethodDelete:
		if err := s.app.DeleteReview(r.Context(), id); err != nil {
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
