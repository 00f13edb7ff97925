// Package local is the built-in identity provider: email/password accounts
// with Argon2id hashes, HS256 JWT ID tokens and session credentials, and a
// pluggable revocation list.
//
// It implements identity.Provider, identity.PasswordAuthenticator and
// identity.SessionRevoker, so a deployment can run entirely self-hosted while
// the session authenticator stays backend-agnostic.
package local
