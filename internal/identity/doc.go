// Package identity defines the identity-provider boundary for prepauth.
//
// The session authenticator never talks to a concrete backend directly; it
// consumes the Provider interface and reasons about failures exclusively
// through the sentinel error kinds declared here. Provider-specific wire
// codes (the "auth/..." strings a hosted backend reports) are translated to
// kinds at the adapter boundary and never leak into the core.
package identity
