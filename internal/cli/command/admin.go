package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaychat-go/internal/cli/connection"
)

// shutdownReply is what the server answers to exit before it stops.
const shutdownReply = "shutting down"

// AdminCommand returns the admin command.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:      "admin",
		Usage:     "Run server console commands over the local control socket",
		ArgsUsage: "[command [args...]]",
		Description: "With arguments, runs one command and prints its reply.\n" +
			"Without arguments, reads one command per line from stdin.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "socket",
				Aliases:  []string{"s"},
				Usage:    "path of the server control socket",
				EnvVars:  []string{"RELAYCHAT_SOCKET"},
				Required: true,
			},
		},
		Action: adminAction,
	}
}

func adminAction(c *cli.Context) error {
	client := connection.NewSocketClient(c.String("socket"))
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	if c.NArg() > 0 {
		return runAdmin(client, strings.Join(c.Args().Slice(), " "), c.App.Writer)
	}
	return adminSession(client, c.App.Reader, c.App.Writer)
}

func runAdmin(client *connection.SocketClient, line string, out io.Writer) error {
	reply, err := client.Execute(line)
	if reply != "" {
		fmt.Fprintln(out, reply)
	}
	return err
}

// adminSession runs every non-empty input line until the input ends or the
// server shuts down.
func adminSession(client *connection.SocketClient, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		reply, err := client.Execute(line)
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		if err != nil {
			return err
		}
		if reply == shutdownReply {
			return nil
		}
	}
	return sc.Err()
}
