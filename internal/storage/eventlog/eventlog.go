package eventlog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Event names.
const (
	EventRegistered       = "registered user"
	EventPasswordLogin    = "authenticated using password"
	EventTokenLogin       = "authenticated using session token"
	EventWrongToken       = "got wrong session token"
	EventWrongPassword    = "got wrong password"
	EventEmptyUsername    = "got empty username"
	EventDisconnected     = "user disconnected"
	EventReceived         = "received"
	EventCredentialsReset = "credentials cleared"
)

// ErrClosed is returned by operations on a closed log.
var ErrClosed = errors.New("eventlog: closed")

// Log is an append-only line log backed by a single file.
type Log struct {
	mu     sync.Mutex
	path   string
	f      *os.File
	now    func() time.Time
	closed bool
}

// Open opens or creates the log file at path for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	return &Log{path: path, f: f, now: time.Now}, nil
}

// Path returns the file path of the log.
func (l *Log) Path() string {
	return l.path
}

// Record appends one event line. kv is a list of alternating keys and values.
func (l *Log) Record(event string, kv ...any) error {
	var b strings.Builder
	b.WriteString(l.now().UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(event)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if _, err := l.f.WriteString(b.String()); err != nil {
		return fmt.Errorf("eventlog: write: %w", err)
	}
	return nil
}

// Contents returns the whole log.
func (l *Log) Contents() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return "", ErrClosed
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("eventlog: read: %w", err)
	}
	return string(data), nil
}

// Truncate empties the log. Later records append from the start.
func (l *Log) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("eventlog: truncate: %w", err)
	}
	return nil
}

// Close syncs and closes the file. It is idempotent.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if err := l.f.Sync(); err != nil {
		l.f.Close()
		return fmt.Errorf("eventlog: sync: %w", err)
	}
	return l.f.Close()
}
