package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/nextbus/pkg/arrivalcache"
)

type CacheHealth struct {
	Populated  bool       `json:"populated"`
	CapturedAt *time.Time `json:"capturedAt"`
	AgeSeconds int        `json:"ageSeconds"`
	Fresh      bool       `json:"fresh"`
	Arrivals   int        `json:"arrivals"`
}

type HealthResponse struct {
	Status string      `json:"status"`
	StopID string      `json:"stopId"`
	Cache  CacheHealth `json:"cache"`
}

// HealthRouter reports on the cache without ever calling TfL
func HealthRouter(router fiber.Router, cache *arrivalcache.Cache, stopID string) {
	router.Get("/", func(c *fiber.Ctx) error {
		entry, err := cache.Snapshot(c.UserContext())
		if err != nil {
			return sendError(c, err)
		}

		response := HealthResponse{
			Status: "ok",
			StopID: stopID,
		}

		if entry != nil {
			capturedAt := entry.CapturedAt.UTC()

			response.Cache = CacheHealth{
				Populated:  true,
				CapturedAt: &capturedAt,
				AgeSeconds: int(cache.Age(entry).Seconds()),
				Fresh:      cache.Fresh(entry),
				Arrivals:   len(entry.Arrivals),
			}
		}

		return c.JSON(response)
	})
}
