// Package geocode resolves free-form address strings to coordinates via an
// external HTTP geocoding API.
//
// The geocoder is treated as an unreliable oracle: results may be missing or
// wrong when address fields conflict, so callers must never gate a write on
// its outcome. Successful lookups are cached in Redis to keep repeated
// lookups of the same yard or truck stop off the paid API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrNotFound is returned when the geocoder has no result for an address.
// It is a normal outcome, not a failure; callers typically ignore it.
var ErrNotFound = errors.New("geocode: address not found")

// Result is a best-effort resolution of an address.
type Result struct {
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	FormattedAddress string  `json:"formatted_address"`
}

// Client calls the geocoding API with retry on transient failures.
// A nil cache disables caching; everything else works the same.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	cache   *Cache
}

// NewClient builds a Client for the given API endpoint.
func NewClient(baseURL, apiKey string, cache *Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

// searchResponse mirrors the API's GeoJSON-ish search payload.
type searchResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves one address. Cache hits skip the network entirely; cache
// write failures are ignored; the cache is an optimization, never a
// dependency.
func (c *Client) Geocode(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, ErrNotFound
	}

	if c.cache != nil {
		if res, ok, err := c.cache.Get(ctx, address); err == nil && ok {
			return res, nil
		}
	}

	resp, err := c.doWithRetry(ctx, address)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return Result{}, ErrNotFound
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return Result{}, fmt.Errorf("geocode: invalid coordinate format for %q", address)
	}

	res := Result{
		Lon:              coords[0],
		Lat:              coords[1],
		FormattedAddress: decoded.Features[0].Properties.Label,
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, address, res)
	}
	return res, nil
}

func (c *Client) newRequest(ctx context.Context, address string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	q := req.URL.Query()
	q.Set("text", address)
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()
	return req, nil
}

type httpStatusError struct {
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("geocode: unexpected status %d", e.Code)
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(ctx context.Context, address string) (*http.Response, error) {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))

	var resp *http.Response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := c.newRequest(ctx, address)
		if err != nil {
			return err
		}

		r, err := c.httpc.Do(req)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) {
				return retry.RetryableError(err)
			}
			return err
		}
		if r.StatusCode != http.StatusOK {
			r.Body.Close()
			statusErr := &httpStatusError{Code: r.StatusCode}
			if retryableStatus(r.StatusCode) {
				return retry.RetryableError(statusErr)
			}
			return statusErr
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
