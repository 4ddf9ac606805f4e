package command

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaychat-go/internal/cli/connection"
)

const dialTimeout = 10 * time.Second

// ChatCommand returns the chat command. It is also the default action.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Open a chat session (default)",
		Action: chatAction,
	}
}

func chatAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unknown command %q", c.Args().First())
	}

	port := c.Int("port")
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}
	addr := net.JoinHostPort(c.String("host"), strconv.Itoa(port))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runChat(ctx, addr, c.App.Reader, c.App.Writer)
}

func runChat(ctx context.Context, addr string, in io.Reader, out io.Writer) error {
	client, err := connection.Dial(ctx, addr, dialTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Fprintf(out, "connected to %s\n", addr)
	return client.Run(ctx, lineReader(in, out), out)
}

func lineReader(in io.Reader, out io.Writer) connection.LineReader {
	if f, ok := in.(*os.File); ok {
		return connection.NewTerminalInput(f, out)
	}
	return connection.NewInput(in)
}
