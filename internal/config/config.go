// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Identity provider (Cognito user pool)
	CognitoRegion        string `mapstructure:"COGNITO_REGION"`
	CognitoUserPoolID    string `mapstructure:"COGNITO_USER_POOL_ID"`
	CognitoClientID      string `mapstructure:"COGNITO_CLIENT_ID"`
	CognitoClientSecret  string `mapstructure:"COGNITO_CLIENT_SECRET"`
	CognitoEndpoint      string `mapstructure:"COGNITO_ENDPOINT"`
	CognitoGlobalSignOut bool   `mapstructure:"COGNITO_GLOBAL_SIGN_OUT"`
	MandatorySignIn      bool   `mapstructure:"MANDATORY_SIGN_IN"`

	// Visitor sessions
	SessionCookieName   string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionHashKey      string        `mapstructure:"SESSION_HASH_KEY"`
	SessionBlockKey     string        `mapstructure:"SESSION_BLOCK_KEY"`
	SessionTTL          time.Duration `mapstructure:"-"` // SESSION_TTL_MINUTES
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`

	// Redis (optional; visitor sessions fall back to process memory)
	RedisURL         string        `mapstructure:"REDIS_URL"`
	RedisPoolSize    int           `mapstructure:"REDIS_POOL_SIZE"`
	RedisDialTimeout time.Duration `mapstructure:"-"` // REDIS_DIAL_TIMEOUT_SECONDS

	// Rate limiting for form submissions
	RateLimitRPS           float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst         int           `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitClientTTL     time.Duration `mapstructure:"-"` // RATE_LIMIT_CLIENT_TTL_MINUTES
	RateLimitSweepSchedule string        `mapstructure:"RATE_LIMIT_SWEEP_SCHEDULE"`

	// CORS for the JSON endpoints
	CORSAllowedOrigins []string `mapstructure:"-"` // CORS_ALLOWED_ORIGINS

	// Proxies whose X-Forwarded-For is believed; empty trusts none
	TrustedProxies []string `mapstructure:"-"` // TRUSTED_PROXIES
}

// minSessionKeyLength is the HMAC key size securecookie expects at minimum.
const minSessionKeyLength = 32

// devSessionHashKey is only accepted outside release mode.
const devSessionHashKey = "account-portal-development-hash-key-change-me"

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("COGNITO_REGION", "")
	v.SetDefault("COGNITO_USER_POOL_ID", "")
	v.SetDefault("COGNITO_CLIENT_ID", "")
	v.SetDefault("COGNITO_CLIENT_SECRET", "")
	v.SetDefault("COGNITO_ENDPOINT", "")
	v.SetDefault("COGNITO_GLOBAL_SIGN_OUT", false)
	v.SetDefault("MANDATORY_SIGN_IN", true)

	v.SetDefault("SESSION_COOKIE_NAME", "account_portal_session")
	v.SetDefault("SESSION_HASH_KEY", "")
	v.SetDefault("SESSION_BLOCK_KEY", "")
	v.SetDefault("SESSION_TTL_MINUTES", 24*60)
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT_SECONDS", 5)

	v.SetDefault("RATE_LIMIT_RPS", 2.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("RATE_LIMIT_CLIENT_TTL_MINUTES", 10)
	v.SetDefault("RATE_LIMIT_SWEEP_SCHEDULE", "@every 1m")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Durations are whole seconds or minutes in the environment, lists are
	// comma separated; both are read here instead of through Unmarshal.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.SessionTTL = time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute
	cfg.RedisDialTimeout = time.Duration(v.GetInt("REDIS_DIAL_TIMEOUT_SECONDS")) * time.Second
	cfg.RateLimitClientTTL = time.Duration(v.GetInt("RATE_LIMIT_CLIENT_TTL_MINUTES")) * time.Minute
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.TrustedProxies = splitList(v.GetString("TRUSTED_PROXIES"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.CognitoRegion) == "" {
		return fmt.Errorf("FATAL: COGNITO_REGION is not set. This is required to reach the user pool")
	}
	if strings.TrimSpace(cfg.CognitoUserPoolID) == "" {
		return fmt.Errorf("FATAL: COGNITO_USER_POOL_ID is not set. This is required to reach the user pool")
	}
	if strings.TrimSpace(cfg.CognitoClientID) == "" {
		return fmt.Errorf("FATAL: COGNITO_CLIENT_ID is not set. This is required to reach the user pool")
	}

	if cfg.SessionHashKey == "" {
		if cfg.GinMode == "release" {
			return fmt.Errorf("FATAL: SESSION_HASH_KEY is not set. This is required to sign visitor cookies in release mode")
		}
		cfg.SessionHashKey = devSessionHashKey
	}
	if len(cfg.SessionHashKey) < minSessionKeyLength {
		return fmt.Errorf("FATAL: SESSION_HASH_KEY must be at least %d bytes", minSessionKeyLength)
	}
	switch len(cfg.SessionBlockKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("FATAL: SESSION_BLOCK_KEY must be 16, 24 or 32 bytes when set")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
