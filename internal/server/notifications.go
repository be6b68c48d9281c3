package server

import (
	"net/http"
	"strings"

	"studykart/internal/token"
)

// handleNotifications serves the public announcement feed on GET.
// Clients pass their classId and board so the feed only contains
// notifications targeting them. Sending is admin only.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		classID := strings.TrimSpace(q.Get("classId"))
		board := strings.TrimSpace(q.Get("board"))
		items, err := s.app.ListNotifications(r.Context(), classID, board)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeList(w, items)
	case http.MethodPost:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ token.Claims) {
			input, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			notif, err := s.app.SendNotification(r.Context(), input)
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, notif)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}
