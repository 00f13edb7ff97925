// Package app wires the prepauth server runtime: config, logging, identity
// provider and store selection, HTTP routes, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	authapi "prepauth/internal/auth/api"
	"prepauth/internal/auth/session"
	"prepauth/internal/directory"
	"prepauth/internal/identity"
	"prepauth/internal/identity/local"
	"prepauth/internal/identity/remote"
)

// App is the prepauth server runtime.
type App struct {
	cfg Config
	log Logger

	pool *pgxpool.Pool
	rdb  *redis.Client

	auth     *authapi.Handler
	registry *prometheus.Registry
}

// New constructs a fully wired App instance from config and logger.
//
// Backend selection:
//   - PREPAUTH_DATABASE_URL set: accounts and the user directory live in
//     Postgres.
//   - PREPAUTH_REDIS_ADDR set: session revocations live in Redis; the
//     directory falls back to Redis when Postgres is absent.
//   - Neither: everything in-memory (dev mode).
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := NewDBPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("app: connect postgres: %w", err)
		}
		pool = p
		log.Info("db.enabled.postgres")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		c, err := NewRedisClient(ctx, cfg)
		if err != nil {
			closePool(pool)
			return nil, fmt.Errorf("app: connect redis: %w", err)
		}
		rdb = c
		log.Info("redis.enabled", "addr", cfg.RedisAddr)
	}

	users, err := newDirectoryStore(pool, rdb, log)
	if err != nil {
		closeBackends(pool, rdb)
		return nil, err
	}

	provider, passwordAuth, revoker, err := newProvider(cfg, pool, rdb, log)
	if err != nil {
		closeBackends(pool, rdb)
		return nil, err
	}

	sessCfg := session.DefaultConfig()
	sessCfg.CookieSecure = cfg.IsProduction()
	sessCfg.CookieDomain = cfg.CookieDomain

	var opts []session.Option
	if revoker != nil {
		opts = append(opts, session.WithSessionRevoker(revoker))
	}
	authenticator, err := session.NewAuthenticator(log, sessCfg, provider, users, opts...)
	if err != nil {
		closeBackends(pool, rdb)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	authHandler, err := authapi.NewHandler(log, authenticator, passwordAuth, authapi.NewMetrics(registry))
	if err != nil {
		closeBackends(pool, rdb)
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      log,
		pool:     pool,
		rdb:      rdb,
		auth:     authHandler,
		registry: registry,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.pool, a.rdb, a.registry, a.auth)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"provider", a.cfg.Provider,
		"db_enabled", a.pool != nil,
		"redis_enabled", a.rdb != nil,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	closeBackends(a.pool, a.rdb)
	a.log.Info("server.stopped")
	return nil
}

func newDirectoryStore(pool *pgxpool.Pool, rdb *redis.Client, log Logger) (directory.Store, error) {
	switch {
	case pool != nil:
		return directory.NewPostgresStore(pool)
	case rdb != nil:
		return directory.NewRedisStore(rdb), nil
	default:
		log.Info("directory.inmemory")
		return directory.NewMemoryStore(), nil
	}
}

// newProvider builds the identity backend. The remote client serves all
// three roles; the local provider composes its own stores.
func newProvider(cfg Config, pool *pgxpool.Pool, rdb *redis.Client, log Logger) (identity.Provider, identity.PasswordAuthenticator, identity.SessionRevoker, error) {
	switch cfg.Provider {
	case ProviderRemote:
		client, err := remote.NewClient(remote.Config{
			BaseURL: cfg.RemoteBaseURL,
			APIKey:  cfg.RemoteAPIKey,
			Timeout: cfg.RemoteTimeout,
		}, nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("app: remote provider: %w", err)
		}
		return client, client, client, nil

	case ProviderLocal:
		localCfg, err := local.LoadConfigFromEnv()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("app: local provider: %w", err)
		}

		var accounts local.AccountStore
		if pool != nil {
			accounts, err = local.NewPostgresAccountStore(pool)
			if err != nil {
				return nil, nil, nil, err
			}
		} else {
			log.Info("accounts.inmemory")
			accounts = local.NewMemoryAccountStore()
		}

		var revoked local.RevocationList
		if rdb != nil {
			revoked = local.NewRedisRevocationList(rdb)
		} else {
			revoked = local.NewMemoryRevocationList()
		}

		provider, err := local.NewProvider(localCfg, accounts, revoked)
		if err != nil {
			return nil, nil, nil, err
		}
		return provider, provider, provider, nil

	default:
		return nil, nil, nil, fmt.Errorf("app: unknown provider %q", cfg.Provider)
	}
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}

func closeBackends(pool *pgxpool.Pool, rdb *redis.Client) {
	closePool(pool)
	if rdb != nil {
		_ = rdb.Close()
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
