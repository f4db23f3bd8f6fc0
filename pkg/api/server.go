package api

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/travigo/nextbus/pkg/api/routes"
	"github.com/travigo/nextbus/pkg/arrivalcache"
	"github.com/travigo/nextbus/pkg/arrivals"
	"github.com/travigo/nextbus/pkg/config"
	"github.com/travigo/nextbus/pkg/http_server"
	"github.com/travigo/nextbus/pkg/tfl"
)

const shutdownTimeout = 10 * time.Second

// NewApp wires the cache, TfL client and routes for the configured stop
func NewApp(cfg *config.Config) *fiber.App {
	cache := arrivalcache.New(cfg.CacheTTL)
	client := tfl.NewClient(cfg.BaseURL, cfg.StopID, cfg.AppID, cfg.AppKey)

	return newApp(cfg, cache, arrivals.NewFetcher(cache, client))
}

func newApp(cfg *config.Config, cache *arrivalcache.Cache, fetcher *arrivals.Fetcher) *fiber.App {
	webApp := fiber.New(fiber.Config{
		AppName:               "nextbus",
		DisableStartupMessage: true,
	})
	webApp.Use(http_server.NewLogger())

	webApp.Get("/version", routes.APIVersion)
	webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.HealthRouter(webApp.Group("/health"), cache, cfg.StopID)
	routes.NextBusRouter(webApp.Group("/next-bus"), fetcher, cfg.StopID)

	return webApp
}

// SetupServer listens until SIGINT or SIGTERM and then drains in flight requests
func SetupServer(listen string, cfg *config.Config) error {
	webApp := NewApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		log.Info().Msg("Shutting down web server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := webApp.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down web server")
		}
	}()

	log.Info().
		Str("listen", listen).
		Str("stop", cfg.StopID).
		Str("ttl", cfg.CacheTTL.String()).
		Msg("Starting next bus web API")

	return webApp.Listen(listen)
}
