package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/relaychat-go/internal/infra/buildinfo"
)

// Defaults for the chat connection.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 9090
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "relaychat-cli",
		Usage:   "Chat with the users of a relaychat server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Action:  chatAction,
		Commands: []*cli.Command{
			ChatCommand(),
			AdminCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "chat server host",
			EnvVars: []string{"RELAYCHAT_HOST"},
			Value:   DefaultHost,
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "chat server port",
			EnvVars: []string{"RELAYCHAT_PORT"},
			Value:   DefaultPort,
		},
	}
}
