package localserver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yndnr/relaychat-go/internal/server/console"
)

// Executor runs one command line.
type Executor interface {
	Execute(ctx context.Context, w io.Writer, line string) error
}

// Handler answers command lines read from one connection.
type Handler struct {
	exec   Executor
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(exec Executor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{exec: exec, logger: logger}
}

// Serve runs commands from rw until end of input or exit.
//
// Each reply is the command output with blank lines removed, or "ok" when
// the command printed nothing, followed by one empty line.
func (h *Handler) Serve(ctx context.Context, rw io.ReadWriter) error {
	scanner := bufio.NewScanner(rw)
	bw := bufio.NewWriter(rw)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.logger.Info("local command", "command", line)

		var out bytes.Buffer
		err := h.exec.Execute(ctx, &out, line)
		exit := errors.Is(err, console.ErrExit)
		body := compact(out.String())
		switch {
		case exit:
			body = "shutting down"
		case err != nil:
			body = joinLines(body, "error: "+err.Error())
		case body == "":
			body = "ok"
		}
		fmt.Fprintf(bw, "%s\n\n", body)
		if err := bw.Flush(); err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
	return scanner.Err()
}

// compact drops empty lines so that output never contains the reply
// terminator.
func compact(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
