package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/relaychat-go/internal/server/chatserver"
)

// ErrExit is returned by Execute after the exit command ran.
var ErrExit = errors.New("console: exit")

// Gate is the pause switch driven by pause and unpause.
type Gate interface {
	Pause()
	Unpause()
	Paused() bool
}

// EventLog is the log shown and cleared by show-logs and clear-logs.
type EventLog interface {
	Contents() (string, error)
	Truncate() error
}

// CredentialManager empties and counts the credential and session stores.
type CredentialManager interface {
	ClearAll(ctx context.Context) error
	Counts(ctx context.Context) (credentials, sessions int, err error)
}

// Deps wires an Executor to the server.
type Deps struct {
	Gate        Gate
	Events      EventLog
	Credentials CredentialManager
	// Status reports the chat server state; optional.
	Status func() chatserver.Status
	// Shutdown starts an orderly server stop; optional.
	Shutdown func()
	// OnReset is called after clear-credentials succeeded; optional.
	OnReset func()
	// History is listed by the history command; optional.
	History *History
}

// Executor runs console commands.
type Executor struct {
	deps Deps
}

// NewExecutor creates an Executor.
func NewExecutor(deps Deps) *Executor {
	return &Executor{deps: deps}
}

// Execute runs one command line and writes its output to w.
//
// Unknown commands print "unknown command" and are not an error. Errors
// from the stores or the event log are returned.
func (e *Executor) Execute(ctx context.Context, w io.Writer, line string) error {
	cmd := strings.TrimSpace(line)

	switch cmd {
	case "exit":
		if e.deps.Shutdown != nil {
			e.deps.Shutdown()
		}
		return ErrExit

	case "pause":
		e.deps.Gate.Pause()
		return nil

	case "unpause":
		e.deps.Gate.Unpause()
		return nil

	case "show-logs":
		contents, err := e.deps.Events.Contents()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, contents)
		return err

	case "clear-logs":
		return e.deps.Events.Truncate()

	case "clear-credentials":
		if err := e.deps.Credentials.ClearAll(ctx); err != nil {
			return err
		}
		if e.deps.OnReset != nil {
			e.deps.OnReset()
		}
		return nil

	case "status":
		return e.status(ctx, w)

	case "history":
		if e.deps.History == nil {
			return nil
		}
		for i, entry := range e.deps.History.List() {
			fmt.Fprintf(w, "%4d  %s\n", i+1, entry)
		}
		return nil

	case "help":
		return e.help(w)

	default:
		fmt.Fprintln(w, "unknown command")
		if s := suggest(cmd); len(s) > 0 {
			fmt.Fprintf(w, "did you mean: %s?\n", strings.Join(s, ", "))
		}
		return nil
	}
}

func (e *Executor) status(ctx context.Context, w io.Writer) error {
	if e.deps.Status != nil {
		st := e.deps.Status()
		state := "running"
		if st.Paused {
			state = "paused"
		}
		fmt.Fprintf(w, "address:     %s\n", st.Addr)
		fmt.Fprintf(w, "members:     %d\n", st.Members)
		fmt.Fprintf(w, "relaying:    %s\n", state)
	}

	creds, sessions, err := e.deps.Credentials.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "credentials: %d\n", creds)
	_, err = fmt.Fprintf(w, "tokens:      %d\n", sessions)
	return err
}

func (e *Executor) help(w io.Writer) error {
	for _, c := range commandHelp {
		if _, err := fmt.Fprintf(w, "  %-18s %s\n", c.name, c.usage); err != nil {
			return err
		}
	}
	return nil
}

var commandHelp = []struct {
	name  string
	usage string
}{
	{"exit", "stop the server"},
	{"pause", "stop relaying messages"},
	{"unpause", "resume relaying messages"},
	{"show-logs", "print the event log"},
	{"clear-logs", "empty the event log"},
	{"clear-credentials", "delete every credential and session token"},
	{"status", "print server state"},
	{"history", "print entered commands"},
	{"help", "list commands"},
}

func suggest(cmd string) []string {
	if cmd == "" {
		return nil
	}
	c := NewCompleter()
	if s := c.Complete(cmd); len(s) > 0 {
		return s
	}
	// Fall back to the leading word, so "clear" suggests every clear-*.
	if i := strings.IndexAny(cmd, "- "); i > 0 {
		return c.Complete(cmd[:i])
	}
	return nil
}
