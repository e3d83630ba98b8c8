package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultORSBaseURL = "https://api.openrouteservice.org"

// ORSProvider implements RouteProvider using OpenRouteService directions
// and matrix endpoints. Transient HTTP failures are retried with backoff.
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
}

type ORSOption func(*ORSProvider)

func WithBaseURL(u string) ORSOption {
	return func(o *ORSProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSProvider) { o.session = c }
}

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(maxAttempts int, backoff time.Duration) ORSOption {
	return func(o *ORSProvider) {
		o.maxAttempts = maxAttempts
		o.backoff = backoff
	}
}

func NewORSProvider(apiKey string, opts ...ORSOption) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultORSBaseURL,
		profile:     "driving-car",
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(provider)
	}
	if provider.maxAttempts < 1 {
		provider.maxAttempts = 1
	}

	return provider, nil
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Path asks ORS for driving directions between exactly two waypoints and
// returns the route geometry.
func (o *ORSProvider) Path(ctx context.Context, waypoints []domain.Coordinates) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Path")(&err)

	if len(waypoints) != 2 {
		return nil, fmt.Errorf("ORS directions support exactly 2 waypoints, got %d", len(waypoints))
	}

	q := url.Values{}
	q.Set("start", lonLat(waypoints[0]))
	q.Set("end", lonLat(waypoints[1]))
	endpoint := fmt.Sprintf("%s/v2/directions/%s?%s", o.baseURL, o.profile, q.Encode())

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if len(dr.Features) == 0 {
		return nil, errors.New("directions response has no features")
	}

	raw := dr.Features[0].Geometry.Coordinates
	if len(raw) == 0 {
		return nil, errors.New("directions response has an empty geometry")
	}
	out := make([]domain.Coordinates, 0, len(raw))
	for i, c := range raw {
		if len(c) < 2 {
			return nil, fmt.Errorf("directions coordinate %d has %d values", i, len(c))
		}
		out = append(out, domain.Coordinates{Lat: c[1], Lon: c[0]})
	}
	return out, nil
}

func lonLat(c domain.Coordinates) string {
	return fmt.Sprintf("%f,%f", c.Lon, c.Lat)
}
