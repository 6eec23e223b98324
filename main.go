package main

import (
	"os"

	"github.com/tliron/glsp/server"
	"github.com/tliron/kutil/logging"
	_ "github.com/tliron/kutil/logging/simple"
	"github.com/urfave/cli/v2"
)

const lsName = "wakatime-lsp"

var version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    lsName,
		Usage:   "forward editor activity to wakatime-cli as throttled heartbeats",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "wakatime-cli",
				Aliases:  []string{"p"},
				Usage:    "path to the wakatime-cli binary",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "verbosity",
				Usage: "log verbosity (0 quiet, 1 info, 2 debug)",
				Value: 1,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logging.Configure(c.Int("verbosity"), nil)

	ls := newLanguageServer(c.String("wakatime-cli"))
	s := server.NewServer(ls.handler(), lsName, false)
	s.RunStdio()
	return nil
}
