package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for password digests. Changing these invalidates
// stored digests, so treat them as part of the schema.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32

	saltLen = 16
)

// NewSalt returns a fresh hex-encoded random salt of fixed length.
func NewSalt() (string, error) {
	buf := make([]byte, saltLen)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", fmt.Errorf("security: generate salt: %w", errRead)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword derives a hex-encoded argon2id digest from a password
// and a hex-encoded salt.
func HashPassword(password, salt string) (string, error) {
	rawSalt, errDecode := hex.DecodeString(salt)
	if errDecode != nil {
		return "", fmt.Errorf("security: decode salt: %w", errDecode)
	}
	digest := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(digest), nil
}

// VerifyPassword reports whether the password matches the stored digest.
// Malformed salt or digest input yields false, never an error.
func VerifyPassword(password, salt, digest string) bool {
	computed, errHash := HashPassword(password, salt)
	if errHash != nil {
		return false
	}
	expected, errDecode := hex.DecodeString(digest)
	if errDecode != nil {
		return false
	}
	actual, _ := hex.DecodeString(computed)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
