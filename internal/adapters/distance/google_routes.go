package distance

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"address-distance-service/internal/platform/retry"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const routesFieldMask = "routes.distanceMeters,routes.duration"

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type routesRequest struct {
	Origin      waypoint `json:"origin"`
	Destination waypoint `json:"destination"`
	TravelMode  string   `json:"travelMode"`
	Units       string   `json:"units"`
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func newWaypoint(c domain.Coordinates) waypoint {
	var w waypoint
	w.Location.LatLng = latLng{Latitude: c.Lat, Longitude: c.Lon}
	return w
}

// GoogleRoutes measures driving distance with the Google Routes API (computeRoutes).
//
// The HTTP call is retried under the configured policy and a new request is
// built for every attempt. A response without a numeric
// routes[0].distanceMeters yields domain.ErrNoRoute without retrying.
type GoogleRoutes struct {
	session  *http.Client
	endpoint string
	apiKey   string
	policy   retry.Policy
}

func NewGoogleRoutes(endpoint, apiKey string, timeout time.Duration, policy retry.Policy) (*GoogleRoutes, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("google routes endpoint is empty")
	}

	return &GoogleRoutes{
		session:  &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		policy:   policy,
	}, nil
}

func (g *GoogleRoutes) Name() string { return "google_routes" }

func (g *GoogleRoutes) EstimateMeters(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ float64, err error) {
	defer obs.Time(ctx, "google.ComputeRoutes")(&err)

	payload, err := json.Marshal(routesRequest{
		Origin:      newWaypoint(origin),
		Destination: newWaypoint(destination),
		TravelMode:  "DRIVE",
		Units:       "METRIC",
	})
	if err != nil {
		return 0, fmt.Errorf("marshal routes request: %w", err)
	}

	body, err := retry.Do(ctx, g.policy, "google.ComputeRoutes", func(ctx context.Context) ([]byte, error) {
		return g.post(ctx, payload)
	})
	if err != nil {
		return 0, fmt.Errorf("routes request failed: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return 0, errors.New("decode routes response: invalid json")
	}

	res := gjson.GetBytes(body, "routes.0.distanceMeters")
	if !res.Exists() || res.Type != gjson.Number {
		return 0, fmt.Errorf("routes %s -> %s: %w", origin, destination, domain.ErrNoRoute)
	}

	meters := res.Float()
	if meters <= 0 {
		return 0, fmt.Errorf("routes %s -> %s: distance %v: %w", origin, destination, meters, domain.ErrNoRoute)
	}

	return meters, nil
}

// post sends one computeRoutes request and returns the 2xx body.
func (g *GoogleRoutes) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)
	req.Header.Set("X-Goog-FieldMask", routesFieldMask)

	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read routes response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
