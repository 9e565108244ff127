package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/wayplan/backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://maps.googleapis.com/maps/api"
	requestBodyReadLimit int64 = 1024
	retryInitialBackoff        = 200 * time.Millisecond
	retryMaxAttempts           = 3
)

var (
	errAPIKeyRequired = errors.New("google maps api key is required")

	// ErrNoResults is returned when Google resolves zero matches for an address.
	ErrNoResults = errors.New("no geocoding results")
)

// Client wraps the Google Maps geocoding and timezone web services.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Maps base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithClock overrides the timestamp source used for timezone lookups.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// GeocodeResult is the normalized payload extracted from the first geocoding match.
type GeocodeResult struct {
	Latitude   float64
	Longitude  float64
	Country    string
	City       string
	Address    string
	Categories []string
}

// TimezoneResult carries the raw UTC offset for a coordinate pair.
type TimezoneResult struct {
	// RawOffsetSeconds is the offset from UTC ignoring daylight saving.
	RawOffsetSeconds int64
	TimezoneID       string
	TimezoneName     string
}

// Geocode resolves a free-form address into coordinates plus locality metadata.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if strings.TrimSpace(address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s?%s", c.buildURL("geocode/json"), query.Encode())

	var apiResp struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			AddressComponents []struct {
				LongName string   `json:"long_name"`
				Types    []string `json:"types"`
			} `json:"address_components"`
			Types []string `json:"types"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "geocode request failed")
	}

	if apiResp.Status == "ZERO_RESULTS" || len(apiResp.Results) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrNoResults, "address could not be geocoded")
	}
	if apiResp.Status != "OK" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("geocode status %s", apiResp.Status))
	}

	first := apiResp.Results[0]
	result := &GeocodeResult{
		Latitude:   first.Geometry.Location.Lat,
		Longitude:  first.Geometry.Location.Lng,
		Address:    first.FormattedAddress,
		Categories: first.Types,
	}
	for _, comp := range first.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "country":
				if result.Country == "" {
					result.Country = comp.LongName
				}
			case "locality":
				if result.City == "" {
					result.City = comp.LongName
				}
			}
		}
	}

	return result, nil
}

// Timezone resolves the UTC offset for a coordinate pair.
func (c *Client) Timezone(ctx context.Context, latitude, longitude float64) (*TimezoneResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}

	query := url.Values{}
	query.Set("location", fmt.Sprintf("%f,%f", latitude, longitude))
	query.Set("timestamp", fmt.Sprintf("%d", c.now().Unix()))
	query.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s?%s", c.buildURL("timezone/json"), query.Encode())

	var apiResp struct {
		Status       string `json:"status"`
		RawOffset    *int64 `json:"rawOffset"`
		TimeZoneID   string `json:"timeZoneId"`
		TimeZoneName string `json:"timeZoneName"`
	}
	if err := c.getJSON(ctx, endpoint, &apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "timezone request failed")
	}

	if apiResp.RawOffset == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("timezone status %s", apiResp.Status))
	}

	return &TimezoneResult{
		RawOffsetSeconds: *apiResp.RawOffset,
		TimezoneID:       apiResp.TimeZoneID,
		TimezoneName:     apiResp.TimeZoneName,
	}, nil
}

// getJSON executes a GET with bounded exponential backoff on 5xx and transport
// errors. 4xx responses are not retried.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	backoff := retry.WithMaxRetries(retryMaxAttempts-1, retry.NewExponential(retryInitialBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= http.StatusInternalServerError {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
			return retry.RetryableError(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
			return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		}

		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
