package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"prepauth/internal/directory"
	"prepauth/internal/identity"
)

// User is the resolved profile of an authenticated request.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignUpParams carries the signup input. The UID comes from the identity
// provider's account creation, never from the client directly.
type SignUpParams struct {
	UID   string
	Name  string
	Email string
}

// Authenticator owns the session lifecycle. All dependencies are injected;
// the revoker is optional and enables signout-side revocation when the
// provider supports it.
type Authenticator struct {
	log      *slog.Logger
	cfg      Config
	provider identity.Provider
	revoker  identity.SessionRevoker
	users    directory.Store
}

// Option configures optional Authenticator dependencies.
type Option func(*Authenticator)

// WithSessionRevoker enables best-effort credential revocation on signout.
func WithSessionRevoker(r identity.SessionRevoker) Option {
	return func(a *Authenticator) {
		if a == nil || r == nil {
			return
		}
		a.revoker = r
	}
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(log *slog.Logger, cfg Config, provider identity.Provider, users directory.Store, opts ...Option) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if provider == nil || users == nil {
		return nil, ErrConfig
	}
	if log == nil {
		log = slog.Default()
	}

	a := &Authenticator{log: log, cfg: cfg, provider: provider, users: users}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a, nil
}

// SetSessionCookie exchanges a short-lived identity token for a session
// credential and writes it as the session cookie. Calling it again
// overwrites the cookie with a fresh credential of the same lifetime.
//
// Unlike signup and signin this returns an error: cookie issuance is a
// prerequisite step, and a rejected token must not be silently swallowed.
func (a *Authenticator) SetSessionCookie(ctx context.Context, w http.ResponseWriter, idToken string) error {
	cred, err := a.provider.CreateSessionCredential(ctx, idToken, a.cfg.SessionTTL)
	if err != nil {
		return err
	}
	a.setSessionCookie(w, cred)
	return nil
}

// SignUp records the profile for a freshly created account. It does not
// mint a session cookie; signin is a separate step.
//
// The directory write is conditional, so a concurrent duplicate signup
// loses deterministically and reports the account as existing.
func (a *Authenticator) SignUp(ctx context.Context, p SignUpParams) Result {
	p.UID = strings.TrimSpace(p.UID)
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.UID == "" || p.Name == "" || p.Email == "" {
		return failure(MsgSignUpFailed)
	}

	_, exists, err := a.users.Get(ctx, directory.UsersCollection, p.UID)
	if err != nil {
		a.log.Error("auth.signup.fail", "uid", p.UID, "err", err)
		return failure(MsgSignUpFailed)
	}
	if exists {
		return failure(MsgUserExists)
	}

	err = a.users.Create(ctx, directory.UsersCollection, p.UID, directory.Record{
		"name":  p.Name,
		"email": p.Email,
	})
	switch {
	case err == nil:
	case errors.Is(err, directory.ErrExists):
		// Lost a concurrent duplicate-signup race.
		return failure(MsgUserExists)
	case identity.IsEmailExists(err):
		return failure(MsgEmailInUse)
	default:
		a.log.Error("auth.signup.fail", "uid", p.UID, "err", err)
		return failure(MsgSignUpFailed)
	}

	a.log.Info("auth.signup.ok", "uid", p.UID)
	return success(MsgSignUpOK)
}

// SignIn resolves the user by email, then mints and persists the session
// cookie from idToken. Every outcome is a Result; nothing is thrown past
// this boundary.
func (a *Authenticator) SignIn(ctx context.Context, w http.ResponseWriter, email, idToken string) Result {
	if _, err := a.provider.GetUserByEmail(ctx, email); err != nil {
		if identity.IsUserNotFound(err) {
			return failure(MsgUserMissing)
		}
		a.log.Error("auth.signin.fail", "err", err)
		return failure(MsgSignInFailed)
	}

	if err := a.SetSessionCookie(ctx, w, idToken); err != nil {
		return failure(a.signInMessage(err))
	}

	a.log.Info("auth.signin.ok")
	return success("")
}

// signInMessage maps a mint failure to its user-facing message, in the
// contract's priority order.
func (a *Authenticator) signInMessage(err error) string {
	switch {
	case identity.IsUserNotFound(err):
		return MsgUserMissing
	case identity.IsInvalidCredential(err):
		return MsgInvalidCredentials
	case identity.IsExpired(err):
		return MsgSessionExpired
	default:
		a.log.Error("auth.signin.fail", "err", err)
		return MsgSignInFailed
	}
}

// CurrentUser resolves the authenticated user from the request's session
// cookie. A missing cookie, a failed verification, or a missing directory
// record all yield nil; authentication absence is a normal state, not a
// fault.
func (a *Authenticator) CurrentUser(ctx context.Context, r *http.Request) *User {
	cred, ok := a.sessionCookieValue(r)
	if !ok {
		return nil
	}

	claims, err := a.provider.VerifySessionCredential(ctx, cred, true)
	if err != nil {
		a.log.Debug("auth.session.invalid", "err", err)
		return nil
	}

	rec, exists, err := a.users.Get(ctx, directory.UsersCollection, claims.UID)
	if err != nil {
		a.log.Error("auth.session.lookup_fail", "uid", claims.UID, "err", err)
		return nil
	}
	if !exists {
		return nil
	}

	return &User{
		ID:    claims.UID,
		Name:  rec.String("name"),
		Email: rec.String("email"),
	}
}

// IsAuthenticated reports whether the request carries a valid session.
func (a *Authenticator) IsAuthenticated(ctx context.Context, r *http.Request) bool {
	return a.CurrentUser(ctx, r) != nil
}

// SignOut clears the session cookie and, when a revoker is configured,
// revokes the credential best-effort. Signout always succeeds from the
// caller's point of view.
func (a *Authenticator) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cred, ok := a.sessionCookieValue(r); ok && a.revoker != nil {
		if err := a.revoker.RevokeSessionCredential(ctx, cred); err != nil {
			a.log.Debug("auth.signout.revoke_fail", "err", err)
		}
	}
	a.expireSessionCookie(w)
}
