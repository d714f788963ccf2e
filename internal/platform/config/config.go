package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	MessagingInProcess = "inprocess"
	MessagingKafka     = "kafka"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName     string
	HTTPPort        string
	PostgresDSN     string
	RunMigrations   bool
	MessagingDriver string
	KafkaBrokers    []string
	RedisURL        string

	// ReputationBaseURL switches penalty delivery from the in-process ledger
	// to the reputation HTTP API.
	ReputationBaseURL string

	RuleCacheTTL          time.Duration
	BulkActionConcurrency int
	PenaltyMaxAttempts    int
	WorkerPollInterval    time.Duration
	MaxContentRunes       int
	IdempotencyTTL        time.Duration
}

// Load reads the process environment. A .env file in the working directory
// is applied first when present; real environment values win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "quad"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("MESSAGING_DRIVER")))
	switch driver {
	case "":
		driver = MessagingInProcess
	case MessagingInProcess, MessagingKafka:
	default:
		return Config{}, errors.New("MESSAGING_DRIVER must be inprocess or kafka")
	}

	return Config{
		ServiceName:       service,
		HTTPPort:          port,
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RunMigrations:     envBool("RUN_MIGRATIONS", true),
		MessagingDriver:   driver,
		KafkaBrokers:      brokers,
		RedisURL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
		ReputationBaseURL: strings.TrimSpace(os.Getenv("REPUTATION_BASE_URL")),

		RuleCacheTTL:          envDuration("RULE_CACHE_TTL", 5*time.Minute),
		BulkActionConcurrency: envInt("BULK_ACTION_CONCURRENCY", 8),
		PenaltyMaxAttempts:    envInt("PENALTY_MAX_ATTEMPTS", 8),
		WorkerPollInterval:    envDuration("WORKER_POLL_INTERVAL", 2*time.Second),
		MaxContentRunes:       envInt("MAX_CONTENT_RUNES", 10000),
		IdempotencyTTL:        envDuration("IDEMPOTENCY_TTL", 7*24*time.Hour),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
