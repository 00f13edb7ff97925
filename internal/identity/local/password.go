package local

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id password hashing, PHC-encoded:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>

const (
	argon2Version = 19

	argonMemoryKiB   = 64 * 1024
	argonIterations  = 3
	argonParallelism = 1
	argonSaltLength  = 16
	argonKeyLength   = 32

	minPasswordLength = 8
	maxPasswordLength = 256
)

// ErrInvalidHash is returned when a stored hash is malformed or uses
// unsupported parameters.
var ErrInvalidHash = errors.New("local: invalid password hash")

// ErrWeakPassword is returned when a password fails the length policy.
var ErrWeakPassword = errors.New("local: password does not meet policy")

// HashPassword returns a PHC-style Argon2id hash string.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return "", ErrWeakPassword
	}

	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("local: salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonIterations, argonMemoryKiB, argonParallelism, argonKeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		argonMemoryKiB,
		argonIterations,
		argonParallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// VerifyPassword checks whether password matches encodedHash.
// Returns (true, nil) for a match, (false, nil) for mismatch, and
// (false, ErrInvalidHash) for malformed/unsupported hashes.
func VerifyPassword(password, encodedHash string) (bool, error) {
	mem, iter, par, salt, expected, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	// Anti-DoS boundary: refuse hashes with parameters wildly above ours so
	// attacker-controlled hash strings cannot drive pathological work.
	if mem > argonMemoryKiB*2 || iter > argonIterations*2 || par > argonParallelism*2 {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey([]byte(password), salt, iter, mem, par, uint32(len(expected))) // #nosec G115 -- length bounded by decodeHash.

	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}

func decodeHash(encoded string) (mem, iter uint32, par uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" || parts[2] != "v=19" {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	var m, t, p uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	if m == 0 || t == 0 || p == 0 || p > 255 {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err = b64.DecodeString(parts[4])
	if err != nil || len(salt) < 8 || len(salt) > 64 {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	hash, err = b64.DecodeString(parts[5])
	if err != nil || len(hash) < 16 || len(hash) > 128 {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	return m, t, uint8(p), salt, hash, nil
}
