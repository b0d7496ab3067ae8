package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// DefaultAPIBase is the backend address used when SKILLORA_API_BASE is unset.
const DefaultAPIBase = "http://localhost:8080"

// Config holds all configuration for skillora.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Poll      PollConfig
	Display   DisplayConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Analytics AnalyticsConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port               int
	Env                string
	RateLimitPerMinute int
}

// APIConfig points at the ingest/analytics backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PollConfig struct {
	Interval time.Duration
	MaxWait  time.Duration
}

type DisplayConfig struct {
	Locale   language.Tag
	Currency string
}

// DatabaseConfig is optional; an empty URL selects the in-memory session store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional; an empty URL disables caching and rate limiting.
type RedisConfig struct {
	URL string
}

type AnalyticsConfig struct {
	CacheTTL time.Duration
}

// AuthConfig holds bcrypt hashes of accepted API keys. No hashes means the
// HTTP server accepts unauthenticated requests.
type AuthConfig struct {
	KeyHashes []string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any value is invalid.
func Load() (*Config, error) {
	locale := envString("SKILLORA_LOCALE", "en-US")
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("SKILLORA_LOCALE must be a BCP 47 language tag, got %q", locale)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               envInt("SKILLORA_PORT", 8090),
			Env:                envString("SKILLORA_ENV", "development"),
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(envString("SKILLORA_API_BASE", DefaultAPIBase), "/"),
			Timeout: envDuration("SKILLORA_API_TIMEOUT", 30*time.Second),
		},
		Poll: PollConfig{
			Interval: envDuration("SKILLORA_POLL_INTERVAL", 1500*time.Millisecond),
			MaxWait:  envDuration("SKILLORA_POLL_MAX_WAIT", 120*time.Second),
		},
		Display: DisplayConfig{
			Locale:   tag,
			Currency: strings.ToUpper(envString("SKILLORA_CURRENCY", "USD")),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Analytics: AnalyticsConfig{
			CacheTTL: envDuration("ANALYTICS_CACHE_TTL", 30*time.Second),
		},
		Auth: AuthConfig{
			KeyHashes: envList("SKILLORA_API_KEY_HASHES"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("SKILLORA_API_BASE must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SKILLORA_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Poll.Interval <= 0 {
		return fmt.Errorf("SKILLORA_POLL_INTERVAL must be positive, got %s", c.Poll.Interval)
	}
	if c.Poll.MaxWait < 0 {
		return fmt.Errorf("SKILLORA_POLL_MAX_WAIT must not be negative, got %s", c.Poll.MaxWait)
	}

	if _, err := currency.ParseISO(c.Display.Currency); err != nil {
		return fmt.Errorf("SKILLORA_CURRENCY must be an ISO 4217 code, got %q", c.Display.Currency)
	}

	if c.Database.URL != "" && !strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must be a postgres:// URL")
	}

	for i, h := range c.Auth.KeyHashes {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return fmt.Errorf("SKILLORA_API_KEY_HASHES entry %d is not a bcrypt hash", i+1)
		}
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
