package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores database connection settings for the order source.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores order event ingest settings. Empty brokers disable the ingest.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// AMQP stores push provider settings. Empty URL selects the dev provider.
type AMQP struct {
	URL       string
	PushQueue string
}

// Realtime stores connection gateway and broadcaster settings.
type Realtime struct {
	AuthTimeout        time.Duration
	PingInterval       time.Duration
	PongWait           time.Duration
	WriteTimeout       time.Duration
	TerminalGrace      time.Duration
	LocationRateLimit  int
	LocationRateWindow time.Duration
}

// Notify stores notification dispatcher settings.
type Notify struct {
	HistorySize int
}

// Pprof stores profiling endpoint credentials for non-loopback access.
type Pprof struct {
	Enabled bool
	User    string
	Pass    string
}

// Config stores service settings.
type Config struct {
	Port      int
	JWTSecret string
	DB        DB
	Kafka     Kafka
	AMQP      AMQP
	Realtime  Realtime
	Notify    Notify
	Pprof     Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      envInt("PORT", DefaultPort()),
		JWTSecret: envStr("JWT_SECRET", DefaultJWTSecret()),
		DB: DB{
			Host: envStr("POSTGRES_HOST", defaultDB.Host),
			Port: envStr("POSTGRES_PORT", defaultDB.Port),
			User: envStr("POSTGRES_USER", defaultDB.User),
			Pass: envStr("POSTGRES_PASSWORD", defaultDB.Pass),
			Name: envStr("POSTGRES_DB", defaultDB.Name),
		},
		Kafka: Kafka{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envStr("KAFKA_ORDERS_TOPIC", defaultKafka.Topic),
			GroupID: envStr("KAFKA_GROUP_ID", defaultKafka.GroupID),
		},
		AMQP: AMQP{
			URL:       envStr("AMQP_URL", ""),
			PushQueue: envStr("AMQP_PUSH_QUEUE", defaultAMQP.PushQueue),
		},
		Realtime: Realtime{
			AuthTimeout:        envDur("WS_AUTH_TIMEOUT", defaultRealtime.AuthTimeout),
			PingInterval:       envDur("WS_PING_INTERVAL", defaultRealtime.PingInterval),
			PongWait:           envDur("WS_PONG_WAIT", defaultRealtime.PongWait),
			WriteTimeout:       envDur("WS_WRITE_TIMEOUT", defaultRealtime.WriteTimeout),
			TerminalGrace:      envDur("ORDER_ROOM_GRACE", defaultRealtime.TerminalGrace),
			LocationRateLimit:  envInt("LOCATION_RATE_LIMIT", defaultRealtime.LocationRateLimit),
			LocationRateWindow: envDur("LOCATION_RATE_WINDOW", defaultRealtime.LocationRateWindow),
		},
		Notify: Notify{
			HistorySize: envInt("NOTIFY_HISTORY_SIZE", defaultNotify.HistorySize),
		},
		Pprof: Pprof{
			Enabled: envStr("PPROF_ENABLED", "") == "true",
			User:    envStr("PPROF_USER", ""),
			Pass:    envStr("PPROF_PASS", ""),
		},
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
