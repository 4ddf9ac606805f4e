// Package password derives and verifies salted password hashes.
//
// Hashes are PBKDF2-HMAC-SHA256 with 100,000 iterations and a 32 byte key.
// Verification is constant-time.
package password
