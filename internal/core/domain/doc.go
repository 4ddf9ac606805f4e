// Package domain defines the core domain models for relaychat.
//
// Domain models are plain values without IO dependencies:
//
//   - Credential: salted password hash keyed by username
//   - SessionToken: bearer token bound to a username
//   - ConnID: ULID identifying one accepted connection
//   - Errors: domain error codes
package domain
