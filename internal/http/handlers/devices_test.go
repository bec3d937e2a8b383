package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/http/handlers"
	"delivery-realtime/internal/service/notify"
)

func TestDeviceHandler_Register_OK(t *testing.T) {
	t.Parallel()

	customer := domain.Identity{ID: "cust_1", Role: domain.RoleCustomer}
	devices := &stubDeviceService{
		registerFn: func(identityID, pushToken string, platform domain.Platform) error {
			require.Equal(t, "cust_1", identityID, "identity comes from the token, not the body")
			require.Equal(t, "apns-token", pushToken)
			require.Equal(t, domain.PlatformIOS, platform)
			return nil
		},
	}
	h := handlers.NewDeviceHandler(verifierFor(customer), devices)

	body := `{"push_token":"apns-token","platform":"ios"}`
	req := withBearer(httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(body)), "cust_1")
	rr := httptest.NewRecorder()

	h.Register(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestDeviceHandler_Register_Unauthorized(t *testing.T) {
	t.Parallel()

	h := handlers.NewDeviceHandler(verifierFor(), &stubDeviceService{})

	body := `{"push_token":"t","platform":"ios"}`
	req := httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Register(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok-nobody")
	rr = httptest.NewRecorder()

	h.Register(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDeviceHandler_Register_BadInput(t *testing.T) {
	t.Parallel()

	customer := domain.Identity{ID: "cust_1", Role: domain.RoleCustomer}
	devices := &stubDeviceService{
		registerFn: func(string, string, domain.Platform) error { return apperr.ErrInvalid },
	}
	h := handlers.NewDeviceHandler(verifierFor(customer), devices)

	// malformed json
	req := withBearer(httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(`{`)), "cust_1")
	rr := httptest.NewRecorder()
	h.Register(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// valid json, rejected by the service
	req = withBearer(httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(`{"push_token":"","platform":"ios"}`)), "cust_1")
	rr = httptest.NewRecorder()
	h.Register(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// unknown fields are rejected
	req = withBearer(httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(`{"push_token":"t","platform":"ios","extra":1}`)), "cust_1")
	rr = httptest.NewRecorder()
	h.Register(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeviceHandler_Unregister(t *testing.T) {
	t.Parallel()

	customer := domain.Identity{ID: "cust_1", Role: domain.RoleCustomer}
	devices := &stubDeviceService{}
	h := handlers.NewDeviceHandler(verifierFor(customer), devices)

	req := withBearer(httptest.NewRequest(http.MethodDelete, "/devices", nil), "cust_1")
	rr := httptest.NewRecorder()

	h.Unregister(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, []string{"cust_1"}, devices.unregistered)
}

func TestDeviceHandler_History_AdminOnly(t *testing.T) {
	t.Parallel()

	admin := domain.Identity{ID: "adm_1", Role: domain.RoleAdmin}
	customer := domain.Identity{ID: "cust_1", Role: domain.RoleCustomer}
	devices := &stubDeviceService{history: []notify.HistoryEntry{
		{IdentityID: "cust_1", Title: "Order received", Sent: true, At: time.Now()},
	}}
	h := handlers.NewDeviceHandler(verifierFor(admin, customer), devices)

	req := withBearer(httptest.NewRequest(http.MethodGet, "/notifications/history", nil), "adm_1")
	rr := httptest.NewRecorder()
	h.History(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Order received")

	req = withBearer(httptest.NewRequest(http.MethodGet, "/notifications/history", nil), "cust_1")
	rr = httptest.NewRecorder()
	h.History(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}
