package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/relaychat-go/pkg/frame"
)

// Server prompts the client reacts to.
const (
	passwordPrompt = "password: "
	promptSuffix   = ": "
	greetingPrefix = "hello "
)

// ChatClient is one framed connection to a relaychat server.
type ChatClient struct {
	conn    net.Conn
	br      *bufio.Reader
	fw      *frame.Writer
	prompts *promptTracker
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*ChatClient, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return NewChatClient(conn), nil
}

// NewChatClient wraps an established connection.
func NewChatClient(conn net.Conn) *ChatClient {
	return &ChatClient{
		conn:    conn,
		br:      bufio.NewReader(conn),
		fw:      frame.NewWriter(conn),
		prompts: newPromptTracker(),
	}
}

// RemoteAddr returns the server address.
func (c *ChatClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Send frames one line and writes it.
func (c *ChatClient) Send(line string) error {
	if len(line) > frame.MaxPayload {
		line = line[:frame.MaxPayload]
	}
	return c.fw.WriteString(line)
}

// Close closes the connection.
func (c *ChatClient) Close() error {
	return c.conn.Close()
}

// Receive writes every frame payload to out until the server closes the
// connection. A clean close returns nil.
func (c *ChatClient) Receive(out io.Writer) error {
	defer c.prompts.close()
	for {
		payload, err := frame.Read(c.br)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if _, err := out.Write(payload); err != nil {
			return err
		}
		c.prompts.observe(string(payload))
	}
}

// Run relays server frames to out and input lines to the server until
// either side ends, then closes the connection.
//
// Until the server greets the user, each line is read only after the next
// prompt arrived, so that the password prompt can switch to hidden entry.
// A goroutine blocked on input may outlive Run.
func (c *ChatClient) Run(ctx context.Context, in LineReader, out io.Writer) error {
	errCh := make(chan error, 2)
	go func() { errCh <- c.Receive(out) }()
	go func() { errCh <- c.sendLoop(in) }()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
	}
	c.Close()
	c.prompts.close()
	return err
}

func (c *ChatClient) sendLoop(in LineReader) error {
	var seen uint64
	for {
		last, authed, ok := c.prompts.waitAfter(seen)
		if !ok {
			return nil
		}
		hidden := !authed && last == passwordPrompt

		line, err := in.ReadLine(hidden)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		seen = c.prompts.current()
		if err := c.Send(line); err != nil {
			return err
		}
	}
}

// promptTracker remembers the latest frame and whether the handshake is
// over.
type promptTracker struct {
	mu     sync.Mutex
	cond   *sync.Cond
	seq    uint64
	last   string
	authed bool
	closed bool
}

func newPromptTracker() *promptTracker {
	t := &promptTracker{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *promptTracker) observe(payload string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.last = payload
	if strings.HasPrefix(payload, greetingPrefix) {
		t.authed = true
	}
	t.cond.Broadcast()
}

func (t *promptTracker) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.cond.Broadcast()
}

func (t *promptTracker) current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// waitAfter blocks until a prompt newer than seq arrived, unless the user
// is already authenticated. ok is false once the connection is gone.
func (t *promptTracker) waitAfter(seq uint64) (last string, authed, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for !t.closed && !t.authed && (t.seq <= seq || !strings.HasSuffix(t.last, promptSuffix)) {
		t.cond.Wait()
	}
	if t.closed {
		return "", false, false
	}
	return t.last, t.authed, true
}
