package local

import (
	"context"
	"time"
)

// Account is a provider-managed email/password account.
type Account struct {
	UID          string
	Email        string
	EmailNorm    string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore is the persistence boundary for accounts.
//
// Create must fail with the identity.ErrEmailExists kind when the normalized
// email is already registered. Lookups fail with identity.ErrUserNotFound.
type AccountStore interface {
	Create(ctx context.Context, a Account) error
	GetByEmail(ctx context.Context, emailNorm string) (Account, error)
	GetByUID(ctx context.Context, uid string) (Account, error)
}
