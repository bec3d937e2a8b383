package app

import (
	"context"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"delivery-realtime/internal/logx"
	testlog "delivery-realtime/internal/testutil"
	"delivery-realtime/internal/transport/kafka"
)

func hasMsg(entries []testlog.Entry, msg string) bool {
	for _, e := range entries {
		if e.Msg == msg {
			return true
		}
	}
	return false
}

func TestGracefulShutdown_DoesNotPanic(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	require.NotPanics(t, func() {
		gracefulShutdown(srv, newTestLogger(), 100*time.Millisecond)
	})
}

func TestStartConsumer_DisabledWithoutConsumer(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	startConsumer(context.Background(), nil, rec.Logger())

	require.True(t, hasMsg(rec.Entries(), "order ingest disabled: kafka not configured"))
}

func TestRun_InvokesViaContainer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := dig.New()

	require.NoError(t, container.Provide(func() context.Context {
		return ctx
	}))
	require.NoError(t, container.Provide(func() *log.Logger {
		return newTestLogger()
	}))
	require.NoError(t, container.Provide(func() logx.Logger {
		return logx.Nop()
	}))
	require.NoError(t, container.Provide(func() *pgxpool.Pool {
		return nil
	}))
	require.NoError(t, container.Provide(func() *http.Server {
		return &http.Server{
			Addr:    "127.0.0.1:0",
			Handler: http.NewServeMux(),
		}
	}))
	require.NoError(t, container.Provide(func() *kafka.Consumer {
		return nil
	}))
	require.NoError(t, container.Provide(func() pushCloser {
		return func() error { return nil }
	}))

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	require.NoError(t, run(container))
}
