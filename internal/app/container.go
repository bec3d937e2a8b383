package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/dig"

	"delivery-realtime/internal/auth"
	"delivery-realtime/internal/config"
	"delivery-realtime/internal/gateway/push"
	"delivery-realtime/internal/http/handlers"
	httpmw "delivery-realtime/internal/http/middleware"
	"delivery-realtime/internal/http/pprofserver"
	"delivery-realtime/internal/http/router"
	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/metrics"
	"delivery-realtime/internal/ratelimit"
	"delivery-realtime/internal/realtime/broadcast"
	wsgw "delivery-realtime/internal/realtime/gateway"
	"delivery-realtime/internal/realtime/registry"
	"delivery-realtime/internal/repository"
	"delivery-realtime/internal/service/lifecycle"
	"delivery-realtime/internal/service/location"
	"delivery-realtime/internal/service/notify"
	"delivery-realtime/internal/service/orchestrator"
	"delivery-realtime/internal/transport/kafka"
)

// pushCloser releases the push provider's broker connection on shutdown.
// It is a no-op closure when the dev provider is in use.
type pushCloser func() error

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns the full service container: realtime core,
// order ingest and the HTTP surface.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, true)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the headless container: realtime core and order
// ingest, no HTTP surface.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, false)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context, withHTTP bool) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerRealtime(container); err != nil {
		return nil, fmt.Errorf("realtime: %w", err)
	}
	if err := registerKafka(container); err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	if withHTTP {
		if err := registerHTTP(container); err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
	}
	return container, nil
}

// MustBuildContainer builds and returns the full service container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the headless ingest container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB, repository.NewOrdersRepo)
}

// metricsSet groups the realtime metrics so providers share one registration.
type metricsSet struct {
	Active      prometheus.Gauge
	Published   prometheus.Counter
	Failures    prometheus.Counter
	PushRetries prometheus.Counter
}

func newMetricsSet() *metricsSet {
	m := &metricsSet{
		Active:      metrics.NewActiveConnections(),
		Published:   metrics.NewEventsPublishedTotal(),
		Failures:    metrics.NewDeliveryFailuresTotal(),
		PushRetries: metrics.NewPushRetriesTotal(),
	}
	for _, c := range []prometheus.Collector{m.Active, m.Published, m.Failures, m.PushRetries} {
		if err := prometheus.Register(c); err != nil {
			// a second container in the same process reuses the registered one
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
	return m
}

func newLocationLimiter(cfg *config.Config) ratelimit.Limiter {
	rl := cfg.Realtime
	if rl.LocationRateLimit <= 0 {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketPerWindow(
		ratelimit.RealClock{},
		rl.LocationRateLimit,
		rl.LocationRateWindow,
		5*time.Minute,
		10_000,
	)
}

func newPushProvider(cfg *config.Config, logger logx.Logger, m *metricsSet) (notify.Provider, pushCloser, error) {
	if cfg.AMQP.URL == "" {
		logger.Info("push provider: dev mode, pushes recorded in memory")
		return push.NewDevProvider(), func() error { return nil }, nil
	}

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	provider, err := push.NewAMQPProvider(conn, cfg.AMQP.PushQueue)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	retrying := push.NewRetryingProvider(provider, logger, m.PushRetries, push.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	})
	return retrying, conn.Close, nil
}

func registerRealtime(container *dig.Container) error {
	return provideAll(container,
		registry.New,
		newMetricsSet,
		newLocationLimiter,
		newPushProvider,
		lifecycle.NewMachine,
		func(cfg *config.Config) *auth.Verifier {
			return auth.NewVerifier(cfg.JWTSecret)
		},
		func(reg *registry.Registry, logger logx.Logger, cfg *config.Config, m *metricsSet) *broadcast.Broadcaster {
			return broadcast.New(reg, logger, cfg.Realtime.WriteTimeout,
				broadcast.WithCounters(m.Published, m.Failures),
			)
		},
		func(b *broadcast.Broadcaster, lim ratelimit.Limiter, logger logx.Logger) *location.Service {
			return location.NewService(b, lim, logger)
		},
		func(provider notify.Provider, logger logx.Logger, cfg *config.Config) *notify.Dispatcher {
			return notify.NewDispatcher(provider, logger, cfg.Notify.HistorySize)
		},
		func(
			reg *registry.Registry,
			verifier *auth.Verifier,
			orders *repository.OrdersRepo,
			loc *location.Service,
			logger logx.Logger,
			cfg *config.Config,
			m *metricsSet,
			b *broadcast.Broadcaster,
		) *wsgw.Gateway {
			g := wsgw.New(reg, verifier, orders, loc, logger, wsgw.Config{
				AuthTimeout:  cfg.Realtime.AuthTimeout,
				PingInterval: cfg.Realtime.PingInterval,
				PongWait:     cfg.Realtime.PongWait,
				WriteTimeout: cfg.Realtime.WriteTimeout,
			}, m.Active)
			// a connection that fails a broadcast write gets torn down
			b.SetFailureHook(g.Kick)
			return g
		},
		func(
			machine *lifecycle.Machine,
			b *broadcast.Broadcaster,
			dispatcher *notify.Dispatcher,
			reg *registry.Registry,
			logger logx.Logger,
			cfg *config.Config,
		) *orchestrator.Orchestrator {
			return orchestrator.New(machine, b, dispatcher, reg, logger, cfg.Realtime.TerminalGrace)
		},
	)
}

func registerKafka(container *dig.Container) error {
	return provideAll(container,
		func(orch *orchestrator.Orchestrator, repo *repository.OrdersRepo) kafka.HandleFunc {
			return makeOrdersHandler(orch, repo)
		},
		func(cfg *config.Config, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerProvider := func(
		base *handlers.Handlers,
		devices *handlers.DeviceHandler,
		orders *handlers.OrderHandler,
		couriers *handlers.CourierHandler,
		announcements *handlers.AnnouncementHandler,
		gw *wsgw.Gateway,
		logger logx.Logger,
		cfg *config.Config,
	) http.Handler {
		deps := router.Deps{
			Base:          base,
			Devices:       devices,
			Orders:        orders,
			Couriers:      couriers,
			Announcements: announcements,
			WS:            gw.HandleWS,
			Observability: httpmw.Observability(logger),
		}
		if cfg.Pprof.Enabled {
			deps.Pprof = pprofserver.Handler(pprofserver.Config{
				User: cfg.Pprof.User,
				Pass: cfg.Pprof.Pass,
			})
		}
		return router.New(deps)
	}
	return provideAll(container,
		handlers.New,
		func(v *auth.Verifier, d *notify.Dispatcher) *handlers.DeviceHandler {
			return handlers.NewDeviceHandler(v, d)
		},
		func(orders *repository.OrdersRepo) *handlers.OrderHandler {
			return handlers.NewOrderHandler(orders)
		},
		func(v *auth.Verifier, loc *location.Service) *handlers.CourierHandler {
			return handlers.NewCourierHandler(v, loc)
		},
		func(v *auth.Verifier, orch *orchestrator.Orchestrator) *handlers.AnnouncementHandler {
			return handlers.NewAnnouncementHandler(v, orch)
		},
		routerProvider,
		serverProvider,
	)
}
