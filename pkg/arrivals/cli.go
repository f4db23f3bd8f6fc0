package arrivals

import (
	"github.com/kr/pretty"
	"github.com/travigo/nextbus/pkg/arrivalcache"
	"github.com/travigo/nextbus/pkg/config"
	"github.com/travigo/nextbus/pkg/tfl"
	"github.com/travigo/nextbus/pkg/views"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "arrivals",
		Usage: "Query the TfL arrivals for the configured stop",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "fetch the arrivals once and print the summary",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "routes",
						Usage: "comma separated route names to filter by",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: views.DefaultSummaryLimit,
						Usage: "maximum number of services to show",
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

					fetcher := NewFetcher(
						arrivalcache.New(cfg.CacheTTL),
						tfl.NewClient(cfg.BaseURL, cfg.StopID, cfg.AppID, cfg.AppKey),
					)

					arrivals, err := fetcher.Arrivals(c.Context)
					if err != nil {
						return err
					}

					pretty.Println(views.Summarise(arrivals, cfg.StopID, c.String("routes"), c.Int("limit")))

					return nil
				},
			},
		},
	}
}
