package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists directory documents in a single jsonb-backed table:
//
//	prepauth.documents (
//	    collection text NOT NULL,
//	    id         text NOT NULL,
//	    fields     jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL,
//	    PRIMARY KEY (collection, id)
//	)
//
// Schema management lives in schema.sql; the store assumes the table exists.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. The pool lifecycle is owned by the
// caller (app bootstrap).
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("directory: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Record, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT fields
		FROM prepauth.documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("directory: get %s/%s: %w", collection, id, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("directory: decode %s/%s: %w", collection, id, err)
	}
	return rec, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, fields Record) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("directory: encode %s/%s: %w", collection, id, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO prepauth.documents (collection, id, fields, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET fields = EXCLUDED.fields, updated_at = now()
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("directory: set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, collection, id string, fields Record) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("directory: encode %s/%s: %w", collection, id, err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO prepauth.documents (collection, id, fields, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, id) DO NOTHING
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("directory: create %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}
