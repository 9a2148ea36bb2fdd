package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything a terminal daemon needs at start-up.
type Config struct {
	// Screen selects the capture screen this terminal runs
	// (arrival, orders, products or tables).
	Screen string

	// TerminalID identifies this terminal in audit records.
	TerminalID string

	// GatewayURL is the websocket endpoint of the backend broadcast
	// channel, e.g. ws://backend:4000/sync.
	GatewayURL string

	// HTTPPort is where the local operator API listens.
	HTTPPort string

	// KafkaBrokers and AuditTopic configure the intent audit trail.
	// Empty brokers fall back to console auditing.
	KafkaBrokers []string
	AuditTopic   string

	// AuditWorkers, AuditBatchSize and AuditFlushTimeout shape the
	// audit batching pipeline.
	AuditWorkers      int
	AuditBatchSize    int
	AuditFlushTimeout time.Duration

	// DraftPath is where open rows are persisted between restarts.
	// Empty disables draft persistence.
	DraftPath string

	// AuthUser and AuthPasswordHash (bcrypt) protect the operator API.
	// Both empty disables auth.
	AuthUser         string
	AuthPasswordHash string

	LogLevel string
}

// Load reads .env from the working directory or its parents (if
// present), then the environment, falling back to development defaults.
func Load() Config {
	loadDotEnv()

	return Config{
		Screen:            getEnv("SCREEN", "arrival"),
		TerminalID:        getEnv("TERMINAL_ID", hostnameOr("terminal")),
		GatewayURL:        getEnv("GATEWAY_URL", "ws://localhost:4000/sync"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:        getEnv("AUDIT_TOPIC", "intent_audit"),
		AuditWorkers:      getEnvInt("AUDIT_WORKERS", 2),
		AuditBatchSize:    getEnvInt("AUDIT_BATCH_SIZE", 5),
		AuditFlushTimeout: getEnvDuration("AUDIT_FLUSH_TIMEOUT", 500*time.Millisecond),
		DraftPath:         os.Getenv("DRAFT_PATH"),
		AuthUser:          os.Getenv("AUTH_USER"),
		AuthPasswordHash:  os.Getenv("AUTH_PASSWORD_HASH"),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
	}
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, path := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
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

func hostnameOr(fallback string) string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return fallback
	}
	return h
}
