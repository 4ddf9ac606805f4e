package chatserver

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"

	"github.com/yndnr/relaychat-go/pkg/frame"
)

// Conn represents a single chat client connection.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	fw      *frame.Writer

	// username is set once by the handshake, before the connection is
	// added to the registry.
	username string

	closed atomic.Bool
}

func newConn(c net.Conn, id string, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:      id,
		netConn: c,
		br:      bufio.NewReader(c),
		fw:      frame.NewWriter(&deadlineWriter{conn: c, timeout: writeTimeout}),
	}
}

// ID returns the connection identifier used in logs.
func (c *Conn) ID() string {
	return c.id
}

// Username returns the authenticated name, or "" during the handshake.
func (c *Conn) Username() string {
	return c.username
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Send writes one frame. Concurrent sends never interleave.
func (c *Conn) Send(payload []byte) error {
	return c.fw.Write(payload)
}

// SendString writes one text frame.
func (c *Conn) SendString(s string) error {
	return c.fw.WriteString(s)
}

func (c *Conn) readFrame() ([]byte, error) {
	return frame.Read(c.br)
}

// Close closes the connection. It is idempotent.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// deadlineWriter arms the write deadline before every write. frame.Writer
// serializes calls, so the deadline always belongs to the write that
// follows it.
type deadlineWriter struct {
	conn    net.Conn
	timeout time.Duration
}

func (w *deadlineWriter) Write(p []byte) (int, error) {
	if w.timeout > 0 {
		if err := w.conn.SetWriteDeadline(time.Now().Add(w.timeout)); err != nil {
			return 0, err
		}
	}
	return w.conn.Write(p)
}
