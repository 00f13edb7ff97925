package app

import "time"

// Provider modes.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr    string
	LogLevel    string
	Environment string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// Provider selects the identity backend: "local" runs the built-in
	// provider; "remote" talks to a hosted backend over HTTP.
	Provider      string
	RemoteBaseURL string
	RemoteAPIKey  string
	RemoteTimeout time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CookieDomain string

	// If true, /readyz returns 503 unless the database is configured and
	// reachable.
	ReadinessRequireDB bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:    EnvString("PREPAUTH_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:    EnvString("PREPAUTH_LOG_LEVEL", "info"),
		Environment: EnvString("PREPAUTH_ENV", "development"),

		ReadHeaderTimeout: EnvDuration("PREPAUTH_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PREPAUTH_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PREPAUTH_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("PREPAUTH_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PREPAUTH_HTTP_MAX_HEADER_BYTES", 1<<20),

		Provider:      EnvString("PREPAUTH_PROVIDER", ProviderLocal),
		RemoteBaseURL: EnvString("PREPAUTH_REMOTE_BASE_URL", ""),
		RemoteAPIKey:  EnvString("PREPAUTH_REMOTE_API_KEY", ""),
		RemoteTimeout: EnvDuration("PREPAUTH_REMOTE_TIMEOUT", 10*time.Second),

		DatabaseURL: EnvString("PREPAUTH_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("PREPAUTH_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("PREPAUTH_DB_MIN_CONNS", 0),

		RedisAddr:     EnvString("PREPAUTH_REDIS_ADDR", ""),
		RedisPassword: EnvString("PREPAUTH_REDIS_PASSWORD", ""),
		RedisDB:       int(EnvInt32("PREPAUTH_REDIS_DB", 0)),

		CookieDomain: EnvString("PREPAUTH_COOKIE_DOMAIN", ""),

		ReadinessRequireDB: EnvBool("PREPAUTH_READINESS_REQUIRE_DB", false),
	}
}

// IsProduction reports whether the process runs with production policies
// (secure cookies).
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
