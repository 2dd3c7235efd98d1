package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// NominatimOptions configures a Nominatim client.
type NominatimOptions struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	// Delay is waited before every lookup (usage policy: max 1 request/second).
	Delay time.Duration
}

// Nominatim is a Geocoder backed by the OpenStreetMap Nominatim reverse API.
type Nominatim struct {
	client   *resty.Client
	language string
	delay    time.Duration
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// NewNominatim creates a client that retries timeouts, 429 and 5xx responses.
func NewNominatim(opts NominatimOptions) *Nominatim {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryWait).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Nominatim{client: client, language: opts.Language, delay: opts.Delay}
}

// Reverse returns the display name Nominatim reports for lat/lon.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	params := map[string]string{
		"format": "jsonv2",
		"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
		"lon":    strconv.FormatFloat(lon, 'f', -1, 64),
	}
	if n.language != "" {
		params["accept-language"] = n.language
	}

	var out reverseResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("reverse geocode: HTTP %d", resp.StatusCode())
	}
	if out.DisplayName == "" {
		return UnknownLocation, nil
	}
	return out.DisplayName, nil
}
