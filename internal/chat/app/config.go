package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
)

type Config struct {
	JWTSecret       string        // Required: HS256 secret shared by the API and the realtime gateway (min 16 bytes)
	Issuer          string        // Optional: issuer claim for tokens (default: tabchat)
	TokenTTL        time.Duration // Optional: access token lifetime (default: 7 days)
	BootstrapSecret string        // Optional: secret required to create the first admin

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./chat.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	CORSOrigin           string        // Optional: comma separated browser origins (default: *)
	CookieSecure         bool          // Optional: mark the token cookie Secure (default: true outside dev)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 4000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	InviteRetention      time.Duration // How long dead invites are kept (default: 90 days)
}

var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig reads the environment, after merging a .env file when present.
func LoadConfig() Config {
	// A missing .env is normal in containers
	_ = godotenv.Load()

	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		JWTSecret:            os.Getenv("CHAT_JWT_SECRET"),
		Issuer:               getEnvOrDefault("CHAT_ISSUER", "tabchat"),
		TokenTTL:             getEnvDurationOrDefault("CHAT_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		BootstrapSecret:      os.Getenv("ADMIN_BOOTSTRAP_SECRET"),
		DatabaseFile:         getEnvOrDefault("CHAT_DATABASE_FILE", "chat.db"),
		PepperFile:           getEnvOrDefault("CHAT_PEPPER_FILE", "pepper"),
		CORSOrigin:           getEnvOrDefault("CORS_ORIGIN", "*"),
		CookieSecure:         getEnvBoolOrDefault("CHAT_COOKIE_SECURE", env != "dev"),
		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 4000),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		InviteRetention:      getEnvDurationOrDefault("CHAT_INVITE_RETENTION", service.DefaultInviteRetention),
	}

	return cfg
}

// Validate reports the first setting that would stop the server from
// starting safely.
func (c Config) Validate() error {
	if len(c.JWTSecret) < jwtx.MinSecretLength {
		return fmt.Errorf("%w: CHAT_JWT_SECRET must be at least %d bytes", ErrInvalidConfig, jwtx.MinSecretLength)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: CHAT_TOKEN_TTL must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.DatabaseFile) == "" {
		return fmt.Errorf("%w: CHAT_DATABASE_FILE is empty", ErrInvalidConfig)
	}
	return nil
}

// AllowedOrigins splits CORSOrigin for the websocket origin check.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
