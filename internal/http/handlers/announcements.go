package handlers

import (
	"errors"
	"net/http"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
)

// AnnouncementHandler lets administrators broadcast system announcements.
type AnnouncementHandler struct {
	verifier  TokenVerifier
	announcer Announcer
}

// NewAnnouncementHandler wires the orchestrator's announce surface into HTTP handlers.
func NewAnnouncementHandler(verifier TokenVerifier, announcer Announcer) *AnnouncementHandler {
	return &AnnouncementHandler{verifier: verifier, announcer: announcer}
}

// Create handles POST /announcements (admin only).
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(r, h.verifier)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	if identity.Role != domain.RoleAdmin {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}

	var req announcementRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	err := h.announcer.Announce(r.Context(), req.Title, req.Message, req.Severity)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "published"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
