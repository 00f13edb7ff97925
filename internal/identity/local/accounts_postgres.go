package local

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"prepauth/internal/identity"
)

// PostgresAccountStore persists accounts in prepauth.accounts (see
// schema.sql). The unique index on email_norm is what makes duplicate
// registration race-safe.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStore wraps an existing pool. The pool lifecycle is owned
// by the caller.
func NewPostgresAccountStore(pool *pgxpool.Pool) (*PostgresAccountStore, error) {
	if pool == nil {
		return nil, errors.New("local: nil db pool")
	}
	return &PostgresAccountStore{pool: pool}, nil
}

func (s *PostgresAccountStore) Create(ctx context.Context, a Account) error {
	const op = "local.accounts.Create"

	if err := ctx.Err(); err != nil {
		return err
	}

	now := a.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO prepauth.accounts (
			uid, email, email_norm, name, password_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, a.UID, a.Email, a.EmailNorm, a.Name, a.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.OpError{Op: op, Kind: identity.ErrEmailExists}
		}
		return err
	}
	return nil
}

func (s *PostgresAccountStore) GetByEmail(ctx context.Context, emailNorm string) (Account, error) {
	const op = "local.accounts.GetByEmail"

	var a Account
	err := s.pool.QueryRow(ctx, `
		SELECT uid, email, email_norm, name, password_hash, created_at
		FROM prepauth.accounts
		WHERE email_norm = $1
	`, emailNorm).Scan(&a.UID, &a.Email, &a.EmailNorm, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, identity.OpError{Op: op, Kind: identity.ErrUserNotFound}
		}
		return Account{}, err
	}
	return a, nil
}

func (s *PostgresAccountStore) GetByUID(ctx context.Context, uid string) (Account, error) {
	const op = "local.accounts.GetByUID"

	var a Account
	err := s.pool.QueryRow(ctx, `
		SELECT uid, email, email_norm, name, password_hash, created_at
		FROM prepauth.accounts
		WHERE uid = $1
	`, uid).Scan(&a.UID, &a.Email, &a.EmailNorm, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, identity.OpError{Op: op, Kind: identity.ErrUserNotFound}
		}
		return Account{}, err
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
