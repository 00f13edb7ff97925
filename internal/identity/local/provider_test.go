package local

import (
	"context"
	"testing"
	"time"

	"prepauth/internal/identity"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()

	cfg := DefaultConfig()
	cfg.SecretKey = []byte(testSecret)

	p, err := NewProvider(cfg, NewMemoryAccountStore(), NewMemoryRevocationList())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	if _, err := NewProvider(Config{}, NewMemoryAccountStore(), NewMemoryRevocationList()); err != ErrConfig {
		t.Fatalf("expected ErrConfig, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.SecretKey = []byte(testSecret)
	if _, err := NewProvider(cfg, nil, NewMemoryRevocationList()); err != ErrConfig {
		t.Fatalf("expected ErrConfig for nil account store, got %v", err)
	}
}

func TestCreateAccount_AndDuplicateEmail(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	id, err := p.CreateAccount(ctx, "ada@example.com", "Ada Lovelace", "analytical-engine")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if id.UID == "" || id.Email != "ada@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	// Same email, different case: must conflict on the normalized form.
	_, err = p.CreateAccount(ctx, "ADA@Example.com", "Someone Else", "other-password")
	if !identity.IsEmailExists(err) {
		t.Fatalf("expected email-exists kind, got %v", err)
	}
}

func TestCreateAccount_InvalidInput(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "", "Ada", "analytical-engine"); !identity.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input for empty email, got %v", err)
	}
	if _, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "short"); !identity.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input for weak password, got %v", err)
	}
}

func TestSignInWithPassword(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "analytical-engine"); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if _, err := p.SignInWithPassword(ctx, "nobody@example.com", "whatever-pass"); !identity.IsUserNotFound(err) {
		t.Fatalf("expected user-not-found, got %v", err)
	}
	if _, err := p.SignInWithPassword(ctx, "ada@example.com", "wrong-password"); !identity.IsInvalidCredential(err) {
		t.Fatalf("expected invalid-credential, got %v", err)
	}

	tok, err := p.SignInWithPassword(ctx, "Ada@Example.com", "analytical-engine")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected id token")
	}
}

func TestSessionCredential_RoundTrip(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	id, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "analytical-engine")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	idToken, err := p.SignInWithPassword(ctx, "ada@example.com", "analytical-engine")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	cred, err := p.CreateSessionCredential(ctx, idToken, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionCredential: %v", err)
	}

	claims, err := p.VerifySessionCredential(ctx, cred, true)
	if err != nil {
		t.Fatalf("VerifySessionCredential: %v", err)
	}
	if claims.UID != id.UID {
		t.Fatalf("uid mismatch: got %q want %q", claims.UID, id.UID)
	}
	if claims.SessionID == "" {
		t.Fatalf("expected session id in claims")
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", claims.ExpiresAt)
	}
}

func TestCreateSessionCredential_RejectsBadInput(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	if _, err := p.CreateSessionCredential(ctx, "garbage", time.Hour); !identity.IsInvalidCredential(err) {
		t.Fatalf("expected invalid-credential for garbage token, got %v", err)
	}

	if _, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "analytical-engine"); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	idToken, err := p.SignInWithPassword(ctx, "ada@example.com", "analytical-engine")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	if _, err := p.CreateSessionCredential(ctx, idToken, 0); !identity.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input for zero ttl, got %v", err)
	}

	// A session credential must not be accepted where an ID token is
	// expected.
	cred, err := p.CreateSessionCredential(ctx, idToken, time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionCredential: %v", err)
	}
	if _, err := p.CreateSessionCredential(ctx, cred, time.Hour); !identity.IsInvalidCredential(err) {
		t.Fatalf("expected invalid-credential for wrong token use, got %v", err)
	}
}

func TestVerifySessionCredential_Expired(t *testing.T) {
	p := testProvider(t)
	p.cfg.ClockSkew = 0
	ctx := context.Background()

	id, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "analytical-engine")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	// Mint a session credential that is already expired.
	cred, err := p.mintToken(id.UID, useSession, "01TESTSESSIONID", -time.Minute, time.Now().UTC())
	if err != nil {
		t.Fatalf("mintToken: %v", err)
	}

	_, err = p.VerifySessionCredential(ctx, cred, true)
	if !identity.IsExpired(err) {
		t.Fatalf("expected credential-expired, got %v", err)
	}
}

func TestRevokeSessionCredential(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "analytical-engine"); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	idToken, err := p.SignInWithPassword(ctx, "ada@example.com", "analytical-engine")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	cred, err := p.CreateSessionCredential(ctx, idToken, time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionCredential: %v", err)
	}

	if _, err := p.VerifySessionCredential(ctx, cred, true); err != nil {
		t.Fatalf("VerifySessionCredential before revoke: %v", err)
	}

	if err := p.RevokeSessionCredential(ctx, cred); err != nil {
		t.Fatalf("RevokeSessionCredential: %v", err)
	}

	_, err = p.VerifySessionCredential(ctx, cred, true)
	if !identity.IsRevoked(err) {
		t.Fatalf("expected credential-revoked, got %v", err)
	}

	// Without the revocation check the credential still verifies; the
	// authenticator always enables the check.
	if _, err := p.VerifySessionCredential(ctx, cred, false); err != nil {
		t.Fatalf("VerifySessionCredential without check: %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	if _, err := p.GetUserByEmail(ctx, "nobody@example.com"); !identity.IsUserNotFound(err) {
		t.Fatalf("expected user-not-found, got %v", err)
	}

	id, err := p.CreateAccount(ctx, "ada@example.com", "Ada", "analytical-engine")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	got, err := p.GetUserByEmail(ctx, " ADA@example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.UID != id.UID {
		t.Fatalf("uid mismatch: got %q want %q", got.UID, id.UID)
	}
}
