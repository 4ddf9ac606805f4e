// Package logger builds the process-wide slog logger.
//
//   - logger.go: handler construction, dynamic level
//   - redact.go: masking of passwords, salts and session tokens
//   - context.go: logger and request ID propagation through contexts
//
// Output is text or JSON on stderr. Attributes whose key mentions a
// password, token, secret or salt are replaced, and any string value that
// looks like a session token is partially masked wherever it appears.
package logger
