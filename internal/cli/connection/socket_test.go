package connection

import (
	"bufio"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"
)

// serveReplies answers each received line with replies[line] followed by
// an empty line.
func serveReplies(t *testing.T, replies map[string]string) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "admin.sock")

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			reply, ok := replies[scanner.Text()]
			if !ok {
				reply = "unknown command"
			}
			fmt.Fprintf(conn, "%s\n\n", reply)
		}
	}()
	return socketPath
}

func TestSocketClient_Execute(t *testing.T) {
	path := serveReplies(t, map[string]string{
		"pause":  "ok",
		"status": "members:     2\nrelaying:    paused",
	})

	client := NewSocketClient(path)
	defer client.Close()

	tests := []struct {
		cmd  string
		want string
	}{
		{"pause", "ok"},
		{"status", "members:     2\nrelaying:    paused"},
		{"  status  ", "members:     2\nrelaying:    paused"},
		{"bogus", "unknown command"},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.cmd), func(t *testing.T) {
			got, err := client.Execute(tt.cmd)
			if err != nil {
				t.Fatalf("Execute(%q) error = %v", tt.cmd, err)
			}
			if got != tt.want {
				t.Errorf("Execute(%q) = %q, want %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestSocketClient_Close_NoConnection(t *testing.T) {
	client := NewSocketClient(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Close(); err != nil {
		t.Errorf("Close without connection should not error: %v", err)
	}
}

func TestSocketClient_Connect_NonexistentSocket(t *testing.T) {
	client := NewSocketClient(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := client.Execute("status"); err == nil {
		t.Error("Execute against a missing socket should fail")
	}
}

func TestSocketClient_ServerClosesMidReply(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "half.sock")
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		bufio.NewReader(conn).ReadString('\n')
		conn.Write([]byte("partial\n"))
		conn.Close()
	}()

	client := NewSocketClient(socketPath)
	defer client.Close()

	got, err := client.Execute("show-logs")
	if err == nil {
		t.Fatal("Execute should report the truncated reply")
	}
	if got != "partial" {
		t.Errorf("partial reply = %q, want %q", got, "partial")
	}
}
