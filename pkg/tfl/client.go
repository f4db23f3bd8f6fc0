package tfl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.tfl.gov.uk"

// RequestTimeout bounds every call to the arrivals endpoint
const RequestTimeout = 5 * time.Second

const userAgent = "nextbus/0.1"

type Client struct {
	BaseURL string
	StopID  string
	AppID   string
	AppKey  string

	HTTPClient *http.Client
}

func NewClient(baseURL string, stopID string, appID string, appKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		StopID:  stopID,
		AppID:   appID,
		AppKey:  appKey,

		HTTPClient: &http.Client{Timeout: RequestTimeout},
	}
}

// ArrivalsURL builds <base>/StopPoint/<stop>/Arrivals with app_id and app_key
// appended only when they are set.
func (c *Client) ArrivalsURL() string {
	requestURL := fmt.Sprintf("%s/StopPoint/%s/Arrivals", c.BaseURL, escape(c.StopID))

	var params []string
	if c.AppID != "" {
		params = append(params, "app_id="+escape(c.AppID))
	}
	if c.AppKey != "" {
		params = append(params, "app_key="+escape(c.AppKey))
	}

	if len(params) > 0 {
		requestURL = requestURL + "?" + strings.Join(params, "&")
	}

	return requestURL
}

// GetStopArrivals returns the arrivals for the configured stop in the order TfL sent them
func (c *Client) GetStopArrivals(ctx context.Context) ([]Arrival, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ArrivalsURL(), nil)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	// TfL is protected by cloudflare and it gets angry when no user agent is set
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusError := &StatusError{StatusCode: resp.StatusCode}
		if body, err := io.ReadAll(resp.Body); err == nil {
			statusError.Body = string(body)
		}

		return nil, statusError
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	arrivals, err := DecodeArrivals(body)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return arrivals, nil
}

// escape percent-encodes everything outside the unreserved set, spaces included
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
