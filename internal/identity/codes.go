package identity

// Wire codes reported by hosted identity backends. These strings appear in
// transport payloads only; inside the process everything is an error kind.
const (
	CodeEmailAlreadyExists   = "auth/email-already-exists"
	CodeUserNotFound         = "auth/user-not-found"
	CodeInvalidCredential    = "auth/invalid-credential"
	CodeWrongPassword        = "auth/wrong-password"
	CodeIDTokenExpired       = "auth/id-token-expired"
	CodeSessionCookieExpired = "auth/session-cookie-expired"
)

// KindForCode translates a backend wire code to a sentinel error kind.
// Wrong-password folds into invalid-credential and both expiry codes fold
// into credential-expired; callers distinguish outcomes by kind, not code.
// Unknown codes return nil so adapters can fall back to a generic failure.
func KindForCode(code string) error {
	switch code {
	case CodeEmailAlreadyExists:
		return ErrEmailExists
	case CodeUserNotFound:
		return ErrUserNotFound
	case CodeInvalidCredential, CodeWrongPassword:
		return ErrInvalidCredential
	case CodeIDTokenExpired, CodeSessionCookieExpired:
		return ErrCredentialExpired
	default:
		return nil
	}
}

// CodeForKind is the reverse mapping, used when serving the wire protocol.
// Folded kinds map to their canonical code. Unknown errors return "".
func CodeForKind(err error) string {
	switch {
	case IsEmailExists(err):
		return CodeEmailAlreadyExists
	case IsUserNotFound(err):
		return CodeUserNotFound
	case IsInvalidCredential(err):
		return CodeInvalidCredential
	case IsExpired(err):
		return CodeIDTokenExpired
	default:
		return ""
	}
}
