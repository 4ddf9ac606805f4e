package connection

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// SocketClient sends admin commands to the server's local socket.
type SocketClient struct {
	path    string
	timeout time.Duration
	conn    net.Conn
	reader  *bufio.Reader
}

// NewSocketClient creates a new socket client.
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{path: socketPath, timeout: 10 * time.Second}
}

// Connect connects to the local socket.
func (c *SocketClient) Connect() error {
	conn, err := net.DialTimeout("unix", c.path, c.timeout)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.path, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Close closes the socket connection.
func (c *SocketClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Execute sends one command and returns its reply without the
// terminating empty line. It connects on first use.
func (c *SocketClient) Execute(cmd string) (string, error) {
	if c.conn == nil {
		if err := c.Connect(); err != nil {
			return "", err
		}
	}
	_ = c.conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := fmt.Fprintf(c.conn, "%s\n", strings.TrimSpace(cmd)); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return strings.Join(lines, "\n"), fmt.Errorf("read reply: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}
