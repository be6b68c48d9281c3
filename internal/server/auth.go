package server

import (
	"net/http"

	"studykart/internal/token"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	input, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Register(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	signed, err := s.tokens.Issue(user.String("phone"), user.String("role"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"token": signed, "user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	signed, err := s.tokens.Issue(user.String("phone"), user.String("role"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": signed, "user": user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	user, err := s.app.GetUserByPhone(r.Context(), claims.Phone)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	changes, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.UpdateUserProfile(r.Context(), claims.Phone, changes)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
