package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Roster source kinds.
const (
	RosterSourceHTTP     = "http"
	RosterSourceFile     = "file"
	RosterSourcePostgres = "postgres"
)

// Session store kinds.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// DefaultRosterURL is the sample roster the viewer renders when nothing else is configured.
const DefaultRosterURL = "https://raw.githubusercontent.com/bumbeishvili/sample-data/main/data-oracle.csv"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Roster   RosterConfig
	Session  SessionConfig
	Export   ExportConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	CORSOrigins           string
}

// RosterConfig describes where the roster comes from and how it is decoded.
type RosterConfig struct {
	Source              string
	URL                 string
	File                string
	FetchTimeoutSeconds int
	InternSentinel      string
	Strict              bool
}

// SessionConfig controls view session storage.
type SessionConfig struct {
	Store      string
	TTLMinutes int
}

// ExportConfig controls PDF export.
type ExportConfig struct {
	PageSize      string
	MarginMM      float64
	MaxImageBytes int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters.
type AuthConfig struct {
	JWTSecret string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	margin, err := strconv.ParseFloat(getEnv("EXPORT_MARGIN_MM", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_MARGIN_MM: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "orgchart-viewer"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 16*1024*1024),
			CORSOrigins:           os.Getenv("HTTP_CORS_ORIGINS"),
		},
		Roster: RosterConfig{
			Source:              strings.ToLower(getEnv("ROSTER_SOURCE", RosterSourceHTTP)),
			URL:                 getEnv("ROSTER_URL", DefaultRosterURL),
			File:                getEnv("ROSTER_FILE", "data.csv"),
			FetchTimeoutSeconds: getEnvAsInt("ROSTER_FETCH_TIMEOUT_SECONDS", 10),
			InternSentinel:      getEnv("ROSTER_INTERN_CLASSIFICATION", "Intern"),
			Strict:              getEnvAsBool("ROSTER_STRICT", false),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 120),
		},
		Export: ExportConfig{
			PageSize:      getEnv("EXPORT_PAGE_SIZE", "A4"),
			MarginMM:      margin,
			MaxImageBytes: getEnvAsInt("EXPORT_MAX_IMAGE_BYTES", 12*1024*1024),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Roster.Source {
	case RosterSourceHTTP, RosterSourceFile, RosterSourcePostgres:
	default:
		return fmt.Errorf("invalid ROSTER_SOURCE %q", c.Roster.Source)
	}
	if c.Roster.Source == RosterSourcePostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("ROSTER_SOURCE=postgres requires POSTGRES_DSN")
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("invalid SESSION_STORE %q", c.Session.Store)
	}
	if c.Export.MarginMM < 0 {
		return fmt.Errorf("EXPORT_MARGIN_MM must not be negative")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// FetchTimeout bounds a single roster fetch.
func (r RosterConfig) FetchTimeout() time.Duration {
	if r.FetchTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.FetchTimeoutSeconds) * time.Second
}

// TTL returns how long an idle view session is retained.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
