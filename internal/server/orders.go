package server

import (
	"net/http"
	"strings"

	"studykart/internal/app"
	"studykart/internal/token"
)

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	switch r.Method {
	case http.MethodGet:
		orders, err := s.app.ListOrdersByPhone(r.Context(), claims.Phone)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeList(w, orders)
	case http.MethodPost:
		input, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		order, err := s.app.CreateOrder(r.Context(), claims.Phone, input)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	id := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	admin := claims.Role == app.RoleAdmin

	switch r.Method {
	case http.MethodGet:
		order, err := s.app.GetOrder(r.Context(), id, claims.Phone, admin)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	case http.MethodPut:
		if !admin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		changes, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		order, err := s.app.UpdateOrder(r.Context(), id, changes)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request, _ token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	filters := queryFilters(r.URL.Query(), "orderType", "orderStatus")
	orders, err := s.app.ListOrdersAdmin(r.Context(), filters)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeList(w, orders)
}
