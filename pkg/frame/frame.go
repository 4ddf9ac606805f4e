package frame

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

const (
	// HeaderLen is the size of the decimal length prefix.
	HeaderLen = 4

	// MaxPayload is the largest payload a four digit prefix can describe.
	MaxPayload = 9999
)

var (
	ErrProtocol        = errors.New("frame: protocol error")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Encode returns payload prefixed with its zero padded decimal length.
func Encode(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrPayloadTooLarge, len(payload), MaxPayload)
	}
	buf := make([]byte, 0, HeaderLen+len(payload))
	buf = fmt.Appendf(buf, "%04d", len(payload))
	buf = append(buf, payload...)
	return buf, nil
}

// Write writes one frame to w using a single Write call.
func Write(w io.Writer, payload []byte) error {
	buf, err := Encode(payload)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// WriteString is Write for text payloads.
func WriteString(w io.Writer, s string) error {
	return Write(w, []byte(s))
}

// Read reads exactly one frame from r and returns its payload.
//
// io.EOF is returned only when the stream ends cleanly on a frame boundary.
// A stream that ends inside a header or payload yields an error wrapping both
// ErrProtocol and io.ErrUnexpectedEOF.
func Read(r io.Reader) ([]byte, error) {
	var header [HeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header: %w", ErrProtocol, err)
		}
		return nil, err
	}

	n, err := parseLength(header[:])
	if err != nil {
		return nil, err
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated payload: %w", ErrProtocol, io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	return payload, nil
}

func parseLength(header []byte) (int, error) {
	n := 0
	for _, c := range header {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: invalid length prefix %q", ErrProtocol, header)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// Writer serializes frame writes to a shared stream so that concurrent
// writers never interleave the bytes of two frames.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes one frame.
func (fw *Writer) Write(payload []byte) error {
	buf, err := Encode(payload)
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	_, err = fw.w.Write(buf)
	return err
}

// WriteString writes one text frame.
func (fw *Writer) WriteString(s string) error {
	return fw.Write([]byte(s))
}
