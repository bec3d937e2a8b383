package location

import (
	"context"
	"sync"
	"time"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/logx"
)

// Service accepts courier location reports, keeps the last known fix per
// courier (overwrite only, no history) and republishes to interested rooms.
type Service struct {
	publisher Publisher
	limiter   Limiter
	logger    logx.Logger
	now       func() time.Time

	mu       sync.RWMutex
	last     map[string]domain.LocationReport
	presence map[string]domain.CourierStatus
}

// NewService creates a location Service. A nil limiter disables rate limiting.
func NewService(publisher Publisher, limiter Limiter, logger logx.Logger) *Service {
	return &Service{
		publisher: publisher,
		limiter:   limiter,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		last:      make(map[string]domain.LocationReport),
		presence:  make(map[string]domain.CourierStatus),
	}
}

// Report handles one location fix, fire-and-forget from the caller's view.
// Out-of-range coordinates are dropped after logging: a malformed GPS fix must
// not corrupt the last-known table and is never broadcast. Valid reports go to
// role:admin unconditionally and to the order room when the fix carries one.
func (s *Service) Report(ctx context.Context, courierID string, rep domain.LocationReport) {
	rep.CourierID = courierID
	if rep.ReportedAt.IsZero() {
		rep.ReportedAt = s.now()
	}

	if !rep.Valid() {
		s.logger.Warn("location report dropped",
			logx.String("courier_id", courierID),
			logx.Float64("latitude", rep.Latitude),
			logx.Float64("longitude", rep.Longitude),
		)
		return
	}
	if s.limiter != nil && !s.limiter.Allow(courierID) {
		s.logger.Debug("location report rate limited", logx.String("courier_id", courierID))
		return
	}

	s.mu.Lock()
	s.last[courierID] = rep
	s.mu.Unlock()

	rooms := []domain.RoomKey{domain.RoleRoom(domain.RoleAdmin)}
	if rep.OrderID != "" {
		rooms = append(rooms, domain.OrderRoom(rep.OrderID))
	}

	event := domain.Event{
		Type:      domain.EventCourierLocation,
		OrderID:   rep.OrderID,
		CourierID: courierID,
		Location:  &rep,
		Timestamp: rep.ReportedAt,
	}
	s.publisher.Publish(ctx, event, rooms)
}

// LastKnown returns the most recent valid fix for a courier.
func (s *Service) LastKnown(courierID string) (domain.LocationReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.last[courierID]
	return rep, ok
}

// SetPresence records the presence status a courier reported.
func (s *Service) SetPresence(courierID string, status domain.CourierStatus) error {
	if !status.Valid() {
		return apperr.ErrInvalid
	}
	s.mu.Lock()
	s.presence[courierID] = status
	s.mu.Unlock()

	s.logger.Info("courier presence",
		logx.String("courier_id", courierID),
		logx.String("status", string(status)),
	)
	return nil
}

// Presence returns the last presence status a courier reported.
func (s *Service) Presence(courierID string) (domain.CourierStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.presence[courierID]
	return st, ok
}
