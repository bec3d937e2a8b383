package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"delivery-realtime/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	t.Cleanup(func() {
		pflag.CommandLine = old
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "JWT_SECRET",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"KAFKA_BROKERS", "KAFKA_ORDERS_TOPIC", "KAFKA_GROUP_ID",
		"AMQP_URL", "AMQP_PUSH_QUEUE",
		"WS_AUTH_TIMEOUT", "WS_PING_INTERVAL", "WS_PONG_WAIT", "WS_WRITE_TIMEOUT",
		"ORDER_ROOM_GRACE", "LOCATION_RATE_LIMIT", "LOCATION_RATE_WINDOW",
		"NOTIFY_HISTORY_SIZE", "PPROF_ENABLED", "PPROF_USER", "PPROF_PASS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev-secret", cfg.JWTSecret)

	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, "orders_db", cfg.DB.Name)

	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, "order-events", cfg.Kafka.Topic)
	require.Equal(t, "delivery-realtime", cfg.Kafka.GroupID)

	require.Empty(t, cfg.AMQP.URL)
	require.Equal(t, "push.notifications", cfg.AMQP.PushQueue)

	require.Equal(t, 5*time.Second, cfg.Realtime.AuthTimeout)
	require.Equal(t, 30*time.Second, cfg.Realtime.PingInterval)
	require.Equal(t, 60*time.Second, cfg.Realtime.PongWait)
	require.Equal(t, 30*time.Second, cfg.Realtime.TerminalGrace)
	require.Equal(t, 10, cfg.Realtime.LocationRateLimit)
	require.Equal(t, time.Second, cfg.Realtime.LocationRateWindow)

	require.Equal(t, 200, cfg.Notify.HistorySize)
	require.False(t, cfg.Pprof.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_ORDERS_TOPIC", "orders")
	t.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("WS_PONG_WAIT", "90s")
	t.Setenv("ORDER_ROOM_GRACE", "1m")
	t.Setenv("LOCATION_RATE_LIMIT", "5")
	t.Setenv("PPROF_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "prod-secret", cfg.JWTSecret)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "orders", cfg.Kafka.Topic)
	require.Equal(t, "amqp://guest:guest@mq:5672/", cfg.AMQP.URL)
	require.Equal(t, 90*time.Second, cfg.Realtime.PongWait)
	require.Equal(t, time.Minute, cfg.Realtime.TerminalGrace)
	require.Equal(t, 5, cfg.Realtime.LocationRateLimit)
	require.True(t, cfg.Pprof.Enabled)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "not-a-number")
	t.Setenv("WS_PONG_WAIT", "soon")
	t.Setenv("NOTIFY_HISTORY_SIZE", "many")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 60*time.Second, cfg.Realtime.PongWait)
	require.Equal(t, 200, cfg.Notify.HistorySize)
}

func TestDSN(t *testing.T) {
	t.Parallel()

	db := config.DB{Host: "h", Port: "5433", User: "u", Pass: "p", Name: "d"}
	require.Equal(t, "postgres://u:p@h:5433/d?sslmode=disable", db.DSN())
}
