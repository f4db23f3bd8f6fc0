package routes

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/nextbus/pkg/tfl"
	"github.com/travigo/nextbus/pkg/views"
)

// ArrivalsSource returns the current arrivals for the configured stop
type ArrivalsSource interface {
	Arrivals(ctx context.Context) ([]tfl.Arrival, error)
}

type nextBusHandler struct {
	source ArrivalsSource
	stopID string
}

func NextBusRouter(router fiber.Router, source ArrivalsSource, stopID string) {
	handler := &nextBusHandler{
		source: source,
		stopID: stopID,
	}

	router.Get("/", handler.getNextArrivals)
	router.Get("/summary", handler.getSummary)
}

// routesQuery reads the comma separated routes parameter, falling back to the single route parameter
func routesQuery(c *fiber.Ctx) string {
	return c.Query("routes", c.Query("route"))
}

func (h *nextBusHandler) getNextArrivals(c *fiber.Ctx) error {
	arrivals, err := h.source.Arrivals(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}

	nextArrivals, err := views.NextArrivals(arrivals, h.stopID, routesQuery(c))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(nextArrivals)
}

func (h *nextBusHandler) getSummary(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(views.DefaultSummaryLimit)))
	if err != nil || limit < 0 {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(ErrorResponse{
			Error:   ErrorInvalidLimit,
			Message: "Parameter limit should be a non-negative integer",
		})
	}

	arrivals, err := h.source.Arrivals(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(views.Summarise(arrivals, h.stopID, routesQuery(c), limit))
}
