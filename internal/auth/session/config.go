package session

import (
	"errors"
	"net/http"
	"time"
)

// ErrConfig indicates an invalid session configuration.
var ErrConfig = errors.New("session: invalid config")

// SessionDuration is the validity window of a session credential and its
// cookie.
const SessionDuration = 7 * 24 * time.Hour

// Config controls cookie attributes and the session lifetime.
type Config struct {
	// CookieName is the session cookie's name.
	CookieName string
	// CookiePath scopes the cookie; defaults to "/".
	CookiePath string
	// CookieDomain is optional; empty means host-only.
	CookieDomain string
	// CookieSecure marks the cookie Secure. Enabled in production.
	CookieSecure bool
	// CookieSameSite defaults to Lax.
	CookieSameSite http.SameSite
	// SessionTTL is the credential and cookie lifetime.
	SessionTTL time.Duration
}

// DefaultConfig returns the standard cookie contract: name "session",
// seven-day lifetime, http-only, path "/", same-site lax. Secure is off by
// default and switched on for production by the bootstrap.
func DefaultConfig() Config {
	return Config{
		CookieName:     "session",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		SessionTTL:     SessionDuration,
	}
}

func (c Config) validate() error {
	if c.CookieName == "" || c.CookiePath == "" {
		return ErrConfig
	}
	if c.SessionTTL <= 0 {
		return ErrConfig
	}
	return nil
}
