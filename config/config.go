// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Session store backends.
const (
	SessionStoreMemory  = "memory"
	SessionStoreMongoDB = "mongodb"
)

// minSecretLength is the shortest accepted JWT signing secret.
const minSecretLength = 16

// Config is the whole service configuration.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Catalog  CatalogConfig
	Log      LogConfig
}

// ServerConfig covers the HTTP listener and its middleware chain.
type ServerConfig struct {
	Port             string
	RateLimit        int
	RateWindow       time.Duration
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	CompressionLevel int
	Idempotency      bool
	CORSOrigins      []string
	SwaggerUser      string
	SwaggerPass      string
}

// SessionConfig covers builder session storage.
type SessionConfig struct {
	// Store is SessionStoreMemory or SessionStoreMongoDB. The MongoDB store
	// falls back to memory when the database is disabled.
	Store    string
	TTL      time.Duration
	Capacity int
}

type AuthConfig struct {
	Enabled      bool
	APIKeys      map[string]bool
	JWTSecretKey string
	TokenTTL     time.Duration
}

// DatabaseConfig covers MongoDB and the breaker guarding it.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// KafkaConfig covers event publishing, which is off when Brokers is empty.
type KafkaConfig struct {
	Brokers        []string
	ShipmentsTopic string
	BatchTimeout   time.Duration
}

// Enabled reports whether a broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// CatalogConfig locates the static catalog. An empty path selects the
// embedded default catalog.
type CatalogConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads the environment. Unparsable values fall back to their
// defaults; call Validate to reject inconsistent combinations.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:             envString("PORT", "8080"),
			RateLimit:        env("RATE_LIMIT", 100, strconv.Atoi),
			RateWindow:       env("RATE_WINDOW", time.Minute, time.ParseDuration),
			RequestTimeout:   env("REQUEST_TIMEOUT", 30*time.Second, time.ParseDuration),
			ShutdownTimeout:  env("SHUTDOWN_TIMEOUT", 10*time.Second, time.ParseDuration),
			CompressionLevel: env("COMPRESSION_LEVEL", -1, strconv.Atoi),
			Idempotency:      env("IDEMPOTENCY_ENABLED", true, strconv.ParseBool),
			CORSOrigins:      parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:      os.Getenv("SWAGGER_USER"),
			SwaggerPass:      os.Getenv("SWAGGER_PASS"),
		},
		Session: SessionConfig{
			Store:    parseSessionStore(os.Getenv("SESSION_STORE")),
			TTL:      env("SESSION_TTL", 24*time.Hour, time.ParseDuration),
			Capacity: env("SESSION_CAPACITY", 10000, strconv.Atoi),
		},
		Auth: AuthConfig{
			Enabled:      env("AUTH_ENABLED", false, strconv.ParseBool),
			APIKeys:      parseAPIKeys(os.Getenv("API_KEYS")),
			JWTSecretKey: envString("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			TokenTTL:     env("JWT_TOKEN_TTL", 8*time.Hour, time.ParseDuration),
		},
		Database: DatabaseConfig{
			URI:                            envString("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   envString("MONGODB_DATABASE", "shipment_packaging"),
			LogsTTL:                        env("MONGODB_LOGS_TTL", 30*24*time.Hour, time.ParseDuration),
			Enabled:                        env("MONGODB_ENABLED", false, strconv.ParseBool),
			CircuitBreakerFailureThreshold: env("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5, strconv.Atoi),
			CircuitBreakerSuccessThreshold: env("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2, strconv.Atoi),
			CircuitBreakerTimeout:          env("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second, time.ParseDuration),
		},
		Kafka: KafkaConfig{
			Brokers:        parseList(os.Getenv("KAFKA_BROKERS")),
			ShipmentsTopic: envString("KAFKA_TOPIC_SHIPMENTS", "shipments.events"),
			BatchTimeout:   env("KAFKA_BATCH_TIMEOUT", 50*time.Millisecond, time.ParseDuration),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("CATALOG_PATH"),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Pretty: env("LOG_PRETTY", false, strconv.ParseBool),
		},
	}
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	port, err := strconv.Atoi(c.Server.Port)
	check(err == nil && port > 0 && port <= 65535, "PORT %q is not a TCP port", c.Server.Port)
	check(c.Server.RateLimit >= 0, "RATE_LIMIT must not be negative")
	check(c.Server.RateLimit == 0 || c.Server.RateWindow > 0, "RATE_WINDOW must be positive when rate limiting")
	check(c.Server.CompressionLevel >= -1 && c.Server.CompressionLevel <= 9,
		"COMPRESSION_LEVEL %d is outside -1..9", c.Server.CompressionLevel)
	check(c.Session.Capacity > 0, "SESSION_CAPACITY must be positive")
	check(c.Session.TTL > 0, "SESSION_TTL must be positive")
	if c.Auth.Enabled {
		check(len(c.Auth.JWTSecretKey) >= minSecretLength,
			"JWT_SECRET_KEY must be at least %d bytes", minSecretLength)
		check(c.Auth.TokenTTL > 0, "JWT_TOKEN_TTL must be positive")
	}
	if c.Database.Enabled {
		check(c.Database.URI != "", "MONGODB_URI is required")
		check(c.Database.DatabaseName != "", "MONGODB_DATABASE is required")
		check(c.Database.LogsTTL >= 24*time.Hour, "MONGODB_LOGS_TTL must be at least a day")
		check(c.Database.CircuitBreakerFailureThreshold > 0, "CIRCUIT_BREAKER_FAILURE_THRESHOLD must be positive")
	}
	if c.Kafka.Enabled() {
		check(c.Kafka.ShipmentsTopic != "", "KAFKA_TOPIC_SHIPMENTS is required with KAFKA_BROKERS")
	}
	_, err = zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	check(err == nil, "LOG_LEVEL %q is unknown", c.Log.Level)

	return errors.Join(errs...)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// env parses key with parse, keeping fallback when it is unset or invalid.
func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseSessionStore(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), SessionStoreMongoDB) {
		return SessionStoreMongoDB
	}
	return SessionStoreMemory
}

// parseList splits a comma separated value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseAPIKeys(s string) map[string]bool {
	keys := parseList(s)
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// parseCORSOrigins appends the configured origins to the local dev ones.
func parseCORSOrigins(s string) []string {
	return append([]string{"http://localhost:3000", "http://127.0.0.1:3000"}, parseList(s)...)
}
