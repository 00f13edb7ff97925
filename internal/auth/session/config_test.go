package session

import (
	"net/http"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CookieName != "session" || cfg.CookiePath != "/" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("session ttl: %v", cfg.SessionTTL)
	}
	if cfg.CookieSameSite != http.SameSiteLaxMode {
		t.Fatalf("same-site: %v", cfg.CookieSameSite)
	}
	if cfg.CookieSecure {
		t.Fatalf("secure must default off")
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CookieName = ""
	if err := cfg.validate(); err != ErrConfig {
		t.Fatalf("expected ErrConfig for empty name, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.SessionTTL = 0
	if err := cfg.validate(); err != ErrConfig {
		t.Fatalf("expected ErrConfig for zero ttl, got %v", err)
	}
}
