// Package directory abstracts the user directory: a document key-value store
// addressed by (collection, id), holding profile fields.
package directory

import (
	"context"
	"errors"
)

// UsersCollection is the canonical collection for profile records.
const UsersCollection = "users"

// ErrExists is returned by Create when a document already exists under the
// given (collection, id).
var ErrExists = errors.New("directory: document exists")

// Record holds the fields of a single document. Values are restricted to
// JSON-representable types.
type Record map[string]any

// String returns the named field as a string, or "" when absent or not a
// string.
func (r Record) String(field string) string {
	if r == nil {
		return ""
	}
	s, _ := r[field].(string)
	return s
}

// Store is the persistence boundary for directory documents.
//
// Set has wholesale-upsert semantics: the stored document becomes exactly the
// given fields. Create is conditional and fails with ErrExists when a
// document is already present, which is what makes concurrent duplicate
// signups lose deterministically instead of double-writing.
type Store interface {
	Get(ctx context.Context, collection, id string) (Record, bool, error)
	Set(ctx context.Context, collection, id string, fields Record) error
	Create(ctx context.Context, collection, id string, fields Record) error
}
