package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/nextbus/pkg/arrivalcache"
	"github.com/travigo/nextbus/pkg/tfl"
	"github.com/travigo/nextbus/pkg/views"
)

const (
	ErrorCacheLock    = "CACHE_LOCK_ERROR"
	ErrorTfLUpstream  = "TFL_UPSTREAM_ERROR"
	ErrorTfLParse     = "TFL_PARSE_ERROR"
	ErrorNoArrivals   = "NO_ARRIVALS"
	ErrorInvalidLimit = "INVALID_LIMIT"
	ErrorInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non 2xx response
type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Details *string `json:"details"`
}

func details(s string) *string {
	return &s
}

// ToErrorResponse maps an error to its HTTP status and response body
func ToErrorResponse(err error) (int, ErrorResponse) {
	var unreachableErr *tfl.UnreachableError
	var statusErr *tfl.StatusError
	var parseErr *tfl.ParseError
	var noArrivalsErr *views.NoArrivalsError

	switch {
	case errors.Is(err, arrivalcache.ErrLockUnavailable):
		return fiber.StatusInternalServerError, ErrorResponse{
			Error:   ErrorCacheLock,
			Message: "Failed to acquire cache lock",
		}
	case errors.As(err, &unreachableErr):
		return fiber.StatusBadGateway, ErrorResponse{
			Error:   ErrorTfLUpstream,
			Message: "TfL API request failed",
			Details: details(unreachableErr.Err.Error()),
		}
	case errors.As(err, &statusErr):
		return fiber.StatusBadGateway, ErrorResponse{
			Error:   ErrorTfLUpstream,
			Message: fmt.Sprintf("TfL returned HTTP %d %s", statusErr.StatusCode, http.StatusText(statusErr.StatusCode)),
			Details: details(statusErr.Body),
		}
	case errors.As(err, &parseErr):
		return fiber.StatusBadGateway, ErrorResponse{
			Error:   ErrorTfLParse,
			Message: "Failed to parse TfL response JSON",
			Details: details(parseErr.Err.Error()),
		}
	case errors.As(err, &noArrivalsErr):
		return fiber.StatusServiceUnavailable, ErrorResponse{
			Error:   ErrorNoArrivals,
			Message: noArrivalsErr.Error(),
		}
	default:
		return fiber.StatusInternalServerError, ErrorResponse{
			Error:   ErrorInternal,
			Message: "Internal server error",
			Details: details(err.Error()),
		}
	}
}

func sendError(c *fiber.Ctx, err error) error {
	status, response := ToErrorResponse(err)

	c.Status(status)
	return c.JSON(response)
}
