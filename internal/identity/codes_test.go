package identity

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindForCode(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{CodeEmailAlreadyExists, ErrEmailExists},
		{CodeUserNotFound, ErrUserNotFound},
		{CodeInvalidCredential, ErrInvalidCredential},
		{CodeWrongPassword, ErrInvalidCredential},
		{CodeIDTokenExpired, ErrCredentialExpired},
		{CodeSessionCookieExpired, ErrCredentialExpired},
		{"auth/something-else", nil},
		{"", nil},
	}

	for _, tc := range cases {
		got := KindForCode(tc.code)
		if got != tc.want {
			t.Fatalf("KindForCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestCodeForKind_RoundTrip(t *testing.T) {
	kinds := []error{ErrEmailExists, ErrUserNotFound, ErrInvalidCredential, ErrCredentialExpired}

	for _, kind := range kinds {
		code := CodeForKind(kind)
		if code == "" {
			t.Fatalf("CodeForKind(%v) returned empty code", kind)
		}
		if got := KindForCode(code); got != kind {
			t.Fatalf("round trip for %v: got %v via %q", kind, got, code)
		}
	}

	if code := CodeForKind(errors.New("boom")); code != "" {
		t.Fatalf("expected empty code for unknown error, got %q", code)
	}
}

func TestCodeForKind_Wrapped(t *testing.T) {
	err := OpError{Op: "remote.GetUserByEmail", Kind: ErrUserNotFound}
	if code := CodeForKind(err); code != CodeUserNotFound {
		t.Fatalf("expected %q for wrapped kind, got %q", CodeUserNotFound, code)
	}

	wrapped := fmt.Errorf("lookup: %w", ErrEmailExists)
	if code := CodeForKind(wrapped); code != CodeEmailAlreadyExists {
		t.Fatalf("expected %q for fmt-wrapped kind, got %q", CodeEmailAlreadyExists, code)
	}
}
