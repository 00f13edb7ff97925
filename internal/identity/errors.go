package identity

import (
	"errors"
	"fmt"
)

// Sentinel error kinds (stable for errors.Is and for mapping to user-facing
// outcomes). Adapters translate backend-specific failures to exactly one of
// these.
var (
	ErrInvalidInput      = errors.New("invalid_input")
	ErrUserNotFound      = errors.New("user_not_found")
	ErrEmailExists       = errors.New("email_exists")
	ErrInvalidCredential = errors.New("invalid_credential")
	ErrCredentialExpired = errors.New("credential_expired")
	ErrCredentialRevoked = errors.New("credential_revoked")
)

// OpError is a typed operation error with a stable Op + Kind contract.
// Kind MUST be one of the sentinel kinds; Msg may carry human-readable
// context and must not include secrets or raw tokens.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// IsUserNotFound reports whether err represents ErrUserNotFound.
func IsUserNotFound(err error) bool { return errors.Is(err, ErrUserNotFound) }

// IsEmailExists reports whether err represents ErrEmailExists.
func IsEmailExists(err error) bool { return errors.Is(err, ErrEmailExists) }

// IsInvalidCredential reports whether err represents ErrInvalidCredential.
func IsInvalidCredential(err error) bool { return errors.Is(err, ErrInvalidCredential) }

// IsExpired reports whether err represents ErrCredentialExpired.
func IsExpired(err error) bool { return errors.Is(err, ErrCredentialExpired) }

// IsRevoked reports whether err represents ErrCredentialRevoked.
func IsRevoked(err error) bool { return errors.Is(err, ErrCredentialRevoked) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }
