package geocode

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Google geocodes addresses with the Google Geocoding API.
// Any status other than "OK", or an empty result list, resolves to domain.ErrNoResult.
type Google struct {
	session  *http.Client
	endpoint string
	apiKey   string
}

func NewGoogle(endpoint, apiKey string, timeout time.Duration) (*Google, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("google geocoding endpoint is empty")
	}

	return &Google{
		session:  &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
	}, nil
}

func (g *Google) Name() string { return "google" }

func (g *Google) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)

	var decoded googleGeocodeResponse
	if err := getJSON(ctx, g.session, g.endpoint+"?"+q.Encode(), nil, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("google geocode %q: %w", address, err)
	}

	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("google geocode %q: status %q: %w", address, decoded.Status, domain.ErrNoResult)
	}

	loc := decoded.Results[0].Geometry.Location
	c, err := domain.NewCoordinates(loc.Lat, loc.Lng)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("google geocode %q: %w", address, err)
	}

	return c, nil
}
