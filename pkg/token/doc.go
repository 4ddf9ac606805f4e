// Package token provides session token and salt generation.
//
// Token Format:
//
//   - Prefix: rcst_ (5 characters)
//   - Body: 43 characters of Base64 RawURL encoded random bytes
//   - Total: 48 characters
//
// Security:
//
//   - Uses crypto/rand for CSPRNG
//   - Comparison helpers are constant-time
package token
