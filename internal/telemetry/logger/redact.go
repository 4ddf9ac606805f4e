package logger

import (
	"log/slog"
	"strings"

	"github.com/yndnr/relaychat-go/pkg/token"
)

// Attribute keys containing any of these are never logged in clear.
var sensitiveKeyPatterns = []string{
	"password",
	"token",
	"secret",
	"salt",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks session token values and replaces the value of
// attributes with sensitive key names.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if IsSensitiveValue(s) {
			return slog.String(a.Key, maskValue(s, token.SessionPrefix))
		}
		if s != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}

	case slog.KindAny:
		if b, ok := a.Value.Any().([]byte); ok && len(b) > 0 && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}

	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskValue keeps the prefix and three characters at each end of the body.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks s if it looks like a session token.
func RedactString(s string) string {
	if IsSensitiveValue(s) {
		return maskValue(s, token.SessionPrefix)
	}
	return s
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value looks like a session token.
func IsSensitiveValue(value string) bool {
	return strings.HasPrefix(value, token.SessionPrefix)
}
