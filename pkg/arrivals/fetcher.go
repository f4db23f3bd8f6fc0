package arrivals

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/nextbus/pkg/arrivalcache"
	"github.com/travigo/nextbus/pkg/metrics"
	"github.com/travigo/nextbus/pkg/tfl"
)

// Upstream is the source of live arrivals for the configured stop
type Upstream interface {
	GetStopArrivals(ctx context.Context) ([]tfl.Arrival, error)
}

// Fetcher serves arrivals from the cache while it is fresh and refetches otherwise.
// Concurrent misses each call the upstream; they are not coalesced.
type Fetcher struct {
	Cache    *arrivalcache.Cache
	Upstream Upstream
}

func NewFetcher(cache *arrivalcache.Cache, upstream Upstream) *Fetcher {
	return &Fetcher{
		Cache:    cache,
		Upstream: upstream,
	}
}

// Arrivals returns the current arrivals for the stop. A failed refetch is returned
// to the caller as is and leaves any previously cached entry in place.
func (f *Fetcher) Arrivals(ctx context.Context) ([]tfl.Arrival, error) {
	cached, ok, err := f.Cache.ReadIfFresh(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		log.Debug().Int("arrivals", len(cached)).Msg("Serving arrivals from cache")

		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	startTime := time.Now()
	fetched, err := f.Upstream.GetStopArrivals(ctx)
	latency := time.Since(startTime)
	metrics.UpstreamDuration.Observe(latency.Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(outcome(err)).Inc()
		log.Error().Err(err).Str("latency", latency.String()).Msg("Failed to fetch arrivals from TfL")

		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("success").Inc()

	log.Info().
		Int("arrivals", len(fetched)).
		Str("latency", latency.String()).
		Msg("Fetched arrivals from TfL")

	// A caller that has gone away must not throw away a good fetch
	if err := f.Cache.Replace(context.WithoutCancel(ctx), fetched); err != nil {
		return nil, err
	}

	return fetched, nil
}

func outcome(err error) string {
	var statusErr *tfl.StatusError
	var parseErr *tfl.ParseError

	switch {
	case errors.As(err, &statusErr):
		return "status_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "unreachable"
	}
}
