package identity

import (
	"errors"
	"testing"
)

func TestOpError_MessageAndUnwrap(t *testing.T) {
	err := OpError{Op: "local.SignInWithPassword", Kind: ErrInvalidCredential}
	if err.Error() != "local.SignInWithPassword: invalid_credential" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected errors.Is to see the kind")
	}

	withMsg := OpError{Op: "local.CreateAccount", Kind: ErrInvalidInput, Msg: "email required"}
	if withMsg.Error() != "local.CreateAccount: invalid_input: email required" {
		t.Fatalf("unexpected message: %q", withMsg.Error())
	}
}

func TestKindHelpers(t *testing.T) {
	if !IsUserNotFound(OpError{Op: "x", Kind: ErrUserNotFound}) {
		t.Fatalf("IsUserNotFound failed for wrapped kind")
	}
	if IsUserNotFound(ErrEmailExists) {
		t.Fatalf("IsUserNotFound matched the wrong kind")
	}
	if !IsExpired(OpError{Op: "x", Kind: ErrCredentialExpired}) {
		t.Fatalf("IsExpired failed for wrapped kind")
	}
	if !IsRevoked(ErrCredentialRevoked) {
		t.Fatalf("IsRevoked failed for bare sentinel")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("NormalizeEmail: %q", got)
	}
}
