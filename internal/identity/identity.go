package identity

import (
	"context"
	"time"
)

// Identity is a user identity as resolved by the provider.
type Identity struct {
	UID   string
	Email string
}

// Claims is the decoded content of a verified session credential.
type Claims struct {
	UID       string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Provider is the identity backend consumed by the session authenticator.
//
// Implementations return facts and error kinds only; they make no
// session-lifecycle decisions themselves.
type Provider interface {
	// CreateSessionCredential exchanges a short-lived ID token for a
	// long-lived session credential valid for ttl.
	// Fails with ErrInvalidCredential / ErrCredentialExpired kinds when the
	// ID token does not verify.
	CreateSessionCredential(ctx context.Context, idToken string, ttl time.Duration) (string, error)

	// VerifySessionCredential verifies a session credential. When
	// checkRevoked is true the provider must additionally consult its
	// revocation state.
	// Fails with ErrInvalidCredential / ErrCredentialExpired /
	// ErrCredentialRevoked kinds.
	VerifySessionCredential(ctx context.Context, credential string, checkRevoked bool) (Claims, error)

	// GetUserByEmail resolves an identity by email.
	// Fails with the ErrUserNotFound kind when no account matches.
	GetUserByEmail(ctx context.Context, email string) (Identity, error)
}

// SessionRevoker is implemented by providers that can revoke an issued
// session credential before its natural expiry.
type SessionRevoker interface {
	RevokeSessionCredential(ctx context.Context, credential string) error
}

// PasswordAuthenticator is implemented by providers that manage their own
// email/password accounts and can mint short-lived ID tokens.
type PasswordAuthenticator interface {
	// CreateAccount registers a new account.
	// Fails with ErrEmailExists when the email is already registered and
	// ErrInvalidInput on malformed input.
	CreateAccount(ctx context.Context, email, name, password string) (Identity, error)

	// SignInWithPassword verifies credentials and returns a short-lived
	// ID token suitable for CreateSessionCredential.
	// Fails with ErrUserNotFound / ErrInvalidCredential kinds.
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
}
