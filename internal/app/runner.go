package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"delivery-realtime/internal/logx"
	"delivery-realtime/internal/transport/kafka"
)

// MustRun starts the service using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(func(
		server *http.Server,
		ctx context.Context,
		pool *pgxpool.Pool,
		logger *log.Logger,
		appLogger logx.Logger,
		consumer *kafka.Consumer,
		closePush pushCloser,
	) error {
		// the ingest runs in-process: room membership lives in this process's
		// registry, so events must be consumed where the sockets are
		startConsumer(ctx, consumer, appLogger)
		startServer(server, logger)
		waitForShutdown(ctx, logger)
		gracefulShutdown(server, logger, 15*time.Second)
		closeResources(pool, server, consumer, closePush, logger)
		return nil
	})
}

func startConsumer(ctx context.Context, consumer *kafka.Consumer, logger logx.Logger) {
	if consumer == nil {
		logger.Info("order ingest disabled: kafka not configured")
		return
	}
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("order ingest stopped", logx.Err(err))
		}
	}()
}

func startServer(server *http.Server, logger *log.Logger) {
	go func() {
		logger.Printf("service-realtime listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func waitForShutdown(ctx context.Context, logger *log.Logger) {
	<-ctx.Done()
	logger.Println("shutting down service-realtime...")
}

func gracefulShutdown(srv *http.Server, logger *log.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}

func closeResources(pool *pgxpool.Pool, server *http.Server, consumer *kafka.Consumer, closePush pushCloser, logger *log.Logger) {
	if err := server.Close(); err != nil {
		logger.Printf("server close error: %v", err)
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Printf("kafka close error: %v", err)
		}
	}
	if closePush != nil {
		if err := closePush(); err != nil {
			logger.Printf("push close error: %v", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
}
