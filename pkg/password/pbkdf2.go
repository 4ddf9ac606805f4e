package password

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100_000

	// KeyLength is the derived key size in bytes (SHA-256 output size).
	KeyLength = sha256.Size
)

// Hash derives the password hash for the given salt.
func Hash(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeyLength, sha256.New)
}

// Verify recomputes the hash with salt and compares it to expected.
func Verify(password, salt, expected []byte) bool {
	actual := Hash(password, salt)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
