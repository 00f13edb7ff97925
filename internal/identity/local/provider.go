package local

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"prepauth/internal/identity"
)

var (
	_ identity.Provider              = (*Provider)(nil)
	_ identity.PasswordAuthenticator = (*Provider)(nil)
	_ identity.SessionRevoker        = (*Provider)(nil)
)

// Provider is the built-in identity provider.
type Provider struct {
	cfg      Config
	accounts AccountStore
	revoked  RevocationList
}

// NewProvider constructs a Provider. Both stores are required; dev mode
// passes the in-memory implementations.
func NewProvider(cfg Config, accounts AccountStore, revoked RevocationList) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if accounts == nil || revoked == nil {
		return nil, ErrConfig
	}
	return &Provider{cfg: cfg, accounts: accounts, revoked: revoked}, nil
}

// CreateAccount registers a new email/password account and returns its
// identity. The uid is a ULID assigned here, never chosen by the caller.
func (p *Provider) CreateAccount(ctx context.Context, email, name, password string) (identity.Identity, error) {
	const op = "local.CreateAccount"

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return identity.Identity{}, identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: "email and name are required"}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return identity.Identity{}, identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: err.Error()}
	}

	uid, err := newULID()
	if err != nil {
		return identity.Identity{}, err
	}

	acc := Account{
		UID:          uid,
		Email:        email,
		EmailNorm:    identity.NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.accounts.Create(ctx, acc); err != nil {
		return identity.Identity{}, err
	}

	return identity.Identity{UID: uid, Email: email}, nil
}

// SignInWithPassword verifies the password and mints a short-lived ID token.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	const op = "local.SignInWithPassword"

	acc, err := p.accounts.GetByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return "", err
	}

	ok, err := VerifyPassword(password, acc.PasswordHash)
	if err != nil || !ok {
		// Malformed stored hashes are indistinguishable from a wrong
		// password at this boundary.
		return "", identity.OpError{Op: op, Kind: identity.ErrInvalidCredential}
	}

	return p.mintToken(acc.UID, useIDToken, "", p.cfg.IDTokenTTL, time.Now().UTC())
}

// CreateSessionCredential exchanges a verified ID token for a session
// credential valid for ttl. The credential carries a fresh session id so it
// can be revoked individually.
func (p *Provider) CreateSessionCredential(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	const op = "local.CreateSessionCredential"

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: "ttl must be positive"}
	}

	claims, err := p.parseToken(op, idToken, useIDToken)
	if err != nil {
		return "", err
	}

	sid, err := newULID()
	if err != nil {
		return "", err
	}

	return p.mintToken(claims.UID, useSession, sid, ttl, time.Now().UTC())
}

// VerifySessionCredential verifies a session credential and optionally
// consults the revocation list.
func (p *Provider) VerifySessionCredential(ctx context.Context, credential string, checkRevoked bool) (identity.Claims, error) {
	const op = "local.VerifySessionCredential"

	claims, err := p.parseToken(op, credential, useSession)
	if err != nil {
		return identity.Claims{}, err
	}

	if checkRevoked {
		revoked, err := p.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return identity.Claims{}, err
		}
		if revoked {
			return identity.Claims{}, identity.OpError{Op: op, Kind: identity.ErrCredentialRevoked}
		}
	}

	return identity.Claims{
		UID:       claims.UID,
		SessionID: claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GetUserByEmail resolves an identity by email.
func (p *Provider) GetUserByEmail(ctx context.Context, email string) (identity.Identity, error) {
	acc, err := p.accounts.GetByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{UID: acc.UID, Email: acc.Email}, nil
}

// RevokeSessionCredential marks the credential's session id revoked for its
// remaining lifetime. Credentials that no longer verify need no revocation.
func (p *Provider) RevokeSessionCredential(ctx context.Context, credential string) error {
	const op = "local.RevokeSessionCredential"

	claims, err := p.parseToken(op, credential, useSession)
	if err != nil {
		return err
	}

	remaining := time.Until(claims.ExpiresAt.Time) + p.cfg.ClockSkew
	return p.revoked.Revoke(ctx, claims.ID, remaining)
}

func newULID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
