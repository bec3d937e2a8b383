package broadcast

import (
	"context"
	"sync"
	"time"

	"delivery-realtime/internal/domain"
	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/realtime/registry"
)

// membersSource resolves the current members of a room.
type membersSource interface {
	MembersOf(room domain.RoomKey) []*registry.Connection
}

type counter interface {
	Inc()
}

// DeliveryReport summarizes one fan-out. It is observability data only:
// partial delivery is an accepted outcome and is never retried here.
type DeliveryReport struct {
	RoomsTargeted      int
	ConnectionsReached int
	ConnectionsFailed  int
}

// Broadcaster fans a domain event out to every member of the target rooms.
type Broadcaster struct {
	members      membersSource
	logger       logx.Logger
	writeTimeout time.Duration
	onFailed     func(connID string)
	published    counter
	failures     counter
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithFailureHook registers a callback invoked for every connection whose
// delivery failed; the gateway uses it to schedule teardown.
func WithFailureHook(fn func(connID string)) Option {
	return func(b *Broadcaster) { b.onFailed = fn }
}

// WithCounters wires published/failure counters.
func WithCounters(published, failures counter) Option {
	return func(b *Broadcaster) {
		b.published = published
		b.failures = failures
	}
}

// SetFailureHook replaces the failure hook. Call it during wiring, before the
// first Publish.
func (b *Broadcaster) SetFailureHook(fn func(connID string)) { b.onFailed = fn }

// New creates a Broadcaster reading members from the given source.
func New(members membersSource, logger logx.Logger, writeTimeout time.Duration, opts ...Option) *Broadcaster {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	b := &Broadcaster{
		members:      members,
		logger:       logger,
		writeTimeout: writeTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers the event to every live member of the target rooms.
// A connection appearing in several rooms receives the event once. Writes are
// issued independently under a bounded timeout: a slow or half-closed member
// never blocks delivery to the rest, its failure is only counted and reported.
func (b *Broadcaster) Publish(ctx context.Context, event domain.Event, rooms []domain.RoomKey) DeliveryReport {
	report := DeliveryReport{RoomsTargeted: len(rooms)}

	targets := make(map[string]*registry.Connection)
	for _, room := range rooms {
		for _, conn := range b.members.MembersOf(room) {
			targets[conn.ID] = conn
		}
	}
	if len(targets) == 0 {
		return report
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, conn := range targets {
		wg.Add(1)
		go func(conn *registry.Connection) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, b.writeTimeout)
			defer cancel()

			err := conn.Send(sendCtx, event)

			mu.Lock()
			if err != nil {
				report.ConnectionsFailed++
			} else {
				report.ConnectionsReached++
			}
			mu.Unlock()

			if err != nil {
				b.logger.Warn("event delivery failed",
					logx.String("conn_id", conn.ID),
					logx.String("identity_id", conn.Identity.ID),
					logx.String("event_type", string(event.Type)),
					logx.Err(err),
				)
				if b.failures != nil {
					b.failures.Inc()
				}
				if b.onFailed != nil {
					b.onFailed(conn.ID)
				}
			}
		}(conn)
	}
	wg.Wait()

	if b.published != nil {
		b.published.Inc()
	}
	return report
}
