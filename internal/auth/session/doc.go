// Package session implements the session-authentication workflow: minting
// and persisting the session cookie, signup, signin, resolving the current
// user from a request, and signout.
//
// Signup and signin never return errors to callers; every outcome is a
// structured Result suitable for direct display. Resolving the current user
// treats any verification failure as "no user" rather than a fault.
package session
