package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func swapNewPool(t *testing.T, fn func(context.Context, string) (*pgxpool.Pool, error)) {
	t.Helper()
	old := newPool
	newPool = fn
	t.Cleanup(func() { newPool = old })
}

func TestConnectDbWithRetry_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	want := &pgxpool.Pool{}
	swapNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return want, nil
	})

	pool, err := connectDbWithRetry(context.Background(), "dsn", 5, time.Millisecond)
	require.NoError(t, err)
	require.Same(t, want, pool)
	require.Equal(t, 3, attempts)
}

func TestConnectDbWithRetry_ExhaustsRetries(t *testing.T) {
	attempts := 0
	swapNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		attempts++
		return nil, errors.New("connection refused")
	})

	_, err := connectDbWithRetry(context.Background(), "dsn", 3, time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.Equal(t, 3, attempts)
}

func TestConnectDbWithRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	swapNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		cancel()
		return nil, errors.New("connection refused")
	})

	_, err := connectDbWithRetry(ctx, "dsn", 5, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
