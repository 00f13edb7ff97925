package local

import (
	"errors"
	"os"
	"time"
)

// ErrConfig is returned for invalid provider configuration.
var ErrConfig = errors.New("local: invalid config")

// Config defines runtime configuration for the built-in provider.
//
// Explicit and environment-driven so deployments can tune token parameters
// without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim of every token.
	Issuer string

	// SecretKey signs ID tokens and session credentials (HS256).
	// Must be at least 32 bytes.
	SecretKey []byte

	// IDTokenTTL is the lifetime of short-lived ID tokens minted by
	// SignInWithPassword.
	IDTokenTTL time.Duration

	// ClockSkew is the allowed time skew during token validation.
	ClockSkew time.Duration
}

// DefaultConfig returns defaults suitable for development. SecretKey is left
// empty on purpose; loading fails until one is provided.
func DefaultConfig() Config {
	return Config{
		Issuer:     "prepauth",
		IDTokenTTL: 10 * time.Minute,
		ClockSkew:  30 * time.Second,
	}
}

// LoadConfigFromEnv loads provider configuration from environment variables.
//
// Required:
//   - PREPAUTH_AUTH_SECRET_KEY (>= 32 bytes)
//
// Optional:
//   - PREPAUTH_AUTH_ISSUER
//   - PREPAUTH_AUTH_ID_TOKEN_TTL (Go duration)
//   - PREPAUTH_AUTH_CLOCK_SKEW (Go duration)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("PREPAUTH_AUTH_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("PREPAUTH_AUTH_ID_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.IDTokenTTL = d
	}

	if v := os.Getenv("PREPAUTH_AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	key := os.Getenv("PREPAUTH_AUTH_SECRET_KEY")
	if len(key) < 32 {
		return Config{}, ErrConfig
	}
	cfg.SecretKey = []byte(key)

	return cfg, nil
}

func (c Config) validate() error {
	if c.Issuer == "" || len(c.SecretKey) < 32 {
		return ErrConfig
	}
	if c.IDTokenTTL <= 0 || c.ClockSkew < 0 {
		return ErrConfig
	}
	return nil
}
