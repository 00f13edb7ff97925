// Package authapi exposes the session workflow over HTTP: signup, signin,
// signout, and current-user lookup.
package authapi
