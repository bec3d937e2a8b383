package handlers

import (
	"errors"
	"net/http"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
)

// DeviceHandler serves the device registration surface of the notification
// dispatcher. The identity always comes from the verified bearer token, so a
// subscriber can only manage their own registration.
type DeviceHandler struct {
	verifier TokenVerifier
	devices  DeviceService
}

// NewDeviceHandler wires the dispatcher's device surface into HTTP handlers.
func NewDeviceHandler(verifier TokenVerifier, devices DeviceService) *DeviceHandler {
	return &DeviceHandler{verifier: verifier, devices: devices}
}

// Register handles POST /devices.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(r, h.verifier)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}

	var req registerDeviceRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	err := h.devices.RegisterDevice(identity.ID, req.PushToken, req.Platform)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusCreated, map[string]string{"status": "registered"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Unregister handles DELETE /devices.
func (h *DeviceHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(r, h.verifier)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	h.devices.UnregisterDevice(identity.ID)
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /notifications/history (admin only).
func (h *DeviceHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(r, h.verifier)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	if identity.Role != domain.RoleAdmin {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, r, http.StatusOK, h.devices.History())
}
