package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/http/handlers"
)

type stubAnnouncer struct {
	announceFn func(ctx context.Context, title, message, severity string) error
}

func (s *stubAnnouncer) Announce(ctx context.Context, title, message, severity string) error {
	return s.announceFn(ctx, title, message, severity)
}

func TestAnnouncementHandler_Create_OK(t *testing.T) {
	t.Parallel()

	admin := domain.Identity{ID: "adm_1", Role: domain.RoleAdmin}
	announcer := &stubAnnouncer{
		announceFn: func(_ context.Context, title, message, severity string) error {
			require.Equal(t, "Maintenance", title)
			require.Equal(t, "Back soon", message)
			require.Equal(t, "warning", severity)
			return nil
		},
	}
	h := handlers.NewAnnouncementHandler(verifierFor(admin), announcer)

	body := `{"title":"Maintenance","message":"Back soon","severity":"warning"}`
	req := withBearer(httptest.NewRequest(http.MethodPost, "/announcements", strings.NewReader(body)), "adm_1")
	rr := httptest.NewRecorder()

	h.Create(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)
}

func TestAnnouncementHandler_Create_AdminOnly(t *testing.T) {
	t.Parallel()

	courier := domain.Identity{ID: "courier_1", Role: domain.RoleCourier}
	h := handlers.NewAnnouncementHandler(verifierFor(courier), &stubAnnouncer{})

	body := `{"title":"t","message":"m","severity":"info"}`
	req := withBearer(httptest.NewRequest(http.MethodPost, "/announcements", strings.NewReader(body)), "courier_1")
	rr := httptest.NewRecorder()

	h.Create(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAnnouncementHandler_Create_Invalid(t *testing.T) {
	t.Parallel()

	admin := domain.Identity{ID: "adm_1", Role: domain.RoleAdmin}
	announcer := &stubAnnouncer{
		announceFn: func(context.Context, string, string, string) error { return apperr.ErrInvalid },
	}
	h := handlers.NewAnnouncementHandler(verifierFor(admin), announcer)

	body := `{"title":"","message":"","severity":""}`
	req := withBearer(httptest.NewRequest(http.MethodPost, "/announcements", strings.NewReader(body)), "adm_1")
	rr := httptest.NewRecorder()

	h.Create(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
