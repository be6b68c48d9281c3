package server

import (
	"net/http"
	"strings"

	"studykart/internal/token"
)

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	items, err := s.app.ListPricing(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeList(w, items)
}

// handlePricingByClass serves public reads and admin upserts on
// /api/pricing/{classId}.
func (s *Server) handlePricingByClass(w http.ResponseWriter, r *http.Request) {
	classID := strings.TrimPrefix(r.URL.Path, "/api/pricing/")
	if classID == "" || strings.Contains(classID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		pricing, err := s.app.GetPricing(r.Context(), classID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pricing)
	case http.MethodPut:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ token.Claims) {
			input, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			stored, err := s.app.UpsertPricing(r.Context(), classID, input)
			if err != nil {
				writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, stored)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSeedPricing(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	seeded, err := s.app.SeedPricing(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeList(w, seeded)
}
