package api

import (
	"github.com/travigo/nextbus/pkg/config"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the next bus web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8000",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:    "config",
						Usage:   "optional YAML configuration file",
						EnvVars: []string{"NEXTBUS_CONFIG"},
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					return SetupServer(c.String("listen"), cfg)
				},
			},
		},
	}
}
