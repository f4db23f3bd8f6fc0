package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/nextbus/pkg/api/routes"
	"github.com/travigo/nextbus/pkg/config"
	"github.com/travigo/nextbus/pkg/tfl"
	"github.com/travigo/nextbus/pkg/views"
)

const stopID = "490008660N"

type fakeTfL struct {
	server *httptest.Server
	calls  atomic.Int32
}

func newFakeTfL(t *testing.T, status int, body string) *fakeTfL {
	fake := &fakeTfL{}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.calls.Add(1)
		assert.Equal(t, "/StopPoint/"+stopID+"/Arrivals", r.URL.Path)

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(fake.server.Close)

	return fake
}

func arrivalsBody(t *testing.T) string {
	arrivals := []tfl.Arrival{
		{ID: "a", NaptanID: stopID, StationName: "Holborn Station", LineName: "25", DestinationName: "Ilford", TimeToStation: 500, Timestamp: "2024-05-01T12:00:00Z"},
		{ID: "b", NaptanID: stopID, StationName: "Holborn Station", LineName: "25", DestinationName: "Ilford", TimeToStation: 50, Timestamp: "2024-05-01T12:00:01Z"},
		{ID: "c", NaptanID: stopID, StationName: "Holborn Station", LineName: "N25", DestinationName: "Oxford Circus", TimeToStation: 200, Timestamp: "2024-05-01T12:00:02Z"},
	}

	body, err := json.Marshal(arrivals)
	require.NoError(t, err)

	return string(body)
}

func newTestApp(fake *fakeTfL) *fiber.App {
	return NewApp(&config.Config{
		StopID:   stopID,
		BaseURL:  fake.server.URL,
		CacheTTL: config.CacheTTL,
	})
}

func get(t *testing.T, app *fiber.App, target string, out any) int {
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}

	return resp.StatusCode
}

func TestNextBusFiltersAndSorts(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	var arrivals []tfl.Arrival
	status := get(t, app, "/next-bus?routes=25", &arrivals)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, arrivals, 2)
	assert.Equal(t, int64(50), arrivals[0].TimeToStation)
	assert.Equal(t, int64(500), arrivals[1].TimeToStation)
	for _, arrival := range arrivals {
		assert.Equal(t, "25", arrival.LineName)
	}
}

func TestNextBusSingleRouteAlias(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	var arrivals []tfl.Arrival
	status := get(t, app, "/next-bus?route=n25", &arrivals)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, arrivals, 1)
	assert.Equal(t, "c", arrivals[0].ID)
}

func TestSummaryLimit(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	var summary views.Summary
	status := get(t, app, "/next-bus/summary?routes=25&limit=1", &summary)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, stopID, summary.StopID)
	assert.Equal(t, "Holborn Station", summary.StopName)
	assert.Equal(t, "2024-05-01T12:00:01Z", summary.LastUpdated)
	assert.Equal(t, []views.Service{{Route: "25", Destination: "Ilford", Minutes: 0}}, summary.Services)
}

func TestSummaryInvalidLimit(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	for _, limit := range []string{"-1", "ten"} {
		var response routes.ErrorResponse
		status := get(t, app, "/next-bus/summary?limit="+limit, &response)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, routes.ErrorInvalidLimit, response.Error)
	}
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestUpstreamErrorOnBothViews(t *testing.T) {
	fake := newFakeTfL(t, http.StatusServiceUnavailable, "maintenance")
	app := newTestApp(fake)

	for _, target := range []string{"/next-bus", "/next-bus/summary"} {
		t.Run(target, func(t *testing.T) {
			var response routes.ErrorResponse
			status := get(t, app, target, &response)

			assert.Equal(t, http.StatusBadGateway, status)
			assert.Equal(t, routes.ErrorTfLUpstream, response.Error)
			assert.Contains(t, response.Message, "503")
			require.NotNil(t, response.Details)
			assert.Equal(t, "maintenance", *response.Details)
		})
	}
}

func TestParseError(t *testing.T) {
	for _, body := range []string{`{"unexpected": true}`, `null`, `[] trailing`, `[{}]`} {
		t.Run(body, func(t *testing.T) {
			fake := newFakeTfL(t, http.StatusOK, body)
			app := newTestApp(fake)

			for _, target := range []string{"/next-bus", "/next-bus/summary"} {
				var response routes.ErrorResponse
				status := get(t, app, target, &response)

				assert.Equal(t, http.StatusBadGateway, status, target)
				assert.Equal(t, routes.ErrorTfLParse, response.Error, target)
				assert.NotNil(t, response.Details, target)
			}

			var health routes.HealthResponse
			get(t, app, "/health", &health)
			assert.False(t, health.Cache.Populated)
		})
	}
}

func TestNoMatchingRoutes(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	var response routes.ErrorResponse
	status := get(t, app, "/next-bus?routes=X99", &response)

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, routes.ErrorNoArrivals, response.Error)
	assert.Contains(t, response.Message, stopID)
	assert.Contains(t, response.Message, "X99")
	assert.Nil(t, response.Details)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/next-bus/summary?routes=X99", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `"services":[]`), string(body))

	var summary views.Summary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, stopID, summary.StopID)
	assert.Empty(t, summary.Services)
}

func TestRequestsWithinWindowShareOneFetch(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	assert.Equal(t, http.StatusOK, get(t, app, "/next-bus", nil))
	assert.Equal(t, http.StatusOK, get(t, app, "/next-bus/summary", nil))
	assert.Equal(t, http.StatusOK, get(t, app, "/next-bus?routes=N25", nil))

	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestHealth(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	var health routes.HealthResponse
	assert.Equal(t, http.StatusOK, get(t, app, "/health", &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, stopID, health.StopID)
	assert.False(t, health.Cache.Populated)
	assert.Nil(t, health.Cache.CapturedAt)

	get(t, app, "/next-bus", nil)

	assert.Equal(t, http.StatusOK, get(t, app, "/health", &health))
	assert.True(t, health.Cache.Populated)
	assert.True(t, health.Cache.Fresh)
	assert.Equal(t, 3, health.Cache.Arrivals)
	assert.NotNil(t, health.Cache.CapturedAt)

	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestVersionAndMetrics(t *testing.T) {
	fake := newFakeTfL(t, http.StatusOK, arrivalsBody(t))
	app := newTestApp(fake)

	var version map[string]string
	assert.Equal(t, http.StatusOK, get(t, app, "/version", &version))
	assert.Equal(t, routes.Version, version["version"])

	get(t, app, "/next-bus", nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "nextbus_upstream_requests_total")
	assert.Contains(t, string(body), "nextbus_cache_lookups_total")
}
