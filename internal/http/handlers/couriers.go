package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"delivery-realtime/internal/domain"
)

// CourierHandler exposes fleet state to administrators.
type CourierHandler struct {
	verifier TokenVerifier
	location LocationSource
}

// NewCourierHandler wires the location service into HTTP handlers.
func NewCourierHandler(verifier TokenVerifier, location LocationSource) *CourierHandler {
	return &CourierHandler{verifier: verifier, location: location}
}

// Location handles GET /couriers/{id}/location (admin only).
func (h *CourierHandler) Location(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(r, h.verifier)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	if identity.Role != domain.RoleAdmin {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}

	courierID := chi.URLParam(r, "id")
	rep, found := h.location.LastKnown(courierID)
	if !found {
		writeError(w, r, http.StatusNotFound, "no known location")
		return
	}
	writeJSON(w, r, http.StatusOK, courierLocationResponse{
		CourierID:  rep.CourierID,
		Latitude:   rep.Latitude,
		Longitude:  rep.Longitude,
		Accuracy:   rep.Accuracy,
		ReportedAt: rep.ReportedAt,
	})
}

// Presence handles GET /couriers/{id}/presence (admin only).
func (h *CourierHandler) Presence(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(r, h.verifier)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	if identity.Role != domain.RoleAdmin {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}

	courierID := chi.URLParam(r, "id")
	status, found := h.location.Presence(courierID)
	if !found {
		writeError(w, r, http.StatusNotFound, "no presence reported")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"courier_id": courierID, "status": status})
}
