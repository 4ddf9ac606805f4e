// Package service provides domain services for relaychat.
//
// Domain services contain the authentication decisions and orchestrate
// operations on domain models. They define repository interfaces for their
// storage dependencies, allowing for dependency injection and testability.
//
// This package contains:
//
//   - AuthService: session token resolution, password login with first-use
//     registration, and the credential reset used by the admin console
//
// Services are thread-safe and hold no connection state.
package service
