package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/nextbus/pkg/api"
	"github.com/travigo/nextbus/pkg/arrivals"
	"github.com/travigo/nextbus/pkg/util"
	"github.com/urfave/cli/v2"
)

func main() {
	util.LoadDotEnv()

	if os.Getenv("NEXTBUS_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("NEXTBUS_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "nextbus",
		Description: "Cached next bus arrivals for a single TfL stop",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			arrivals.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
