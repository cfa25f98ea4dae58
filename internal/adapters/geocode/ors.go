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

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORS geocodes addresses using OpenRouteService (/geocode/search).
type ORS struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewORS(baseURL, apiKey string, timeout time.Duration) (*ORS, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORS{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (o *ORS) Name() string { return "ors" }

// normalize collapses whitespace before the address is sent upstream.
func (o *ORS) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORS) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := o.normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("ors geocode: address must be non-empty")
	}

	q := url.Values{}
	q.Set("text", norm)
	q.Set("size", "1")
	endpoint := o.baseURL + "/geocode/search?" + q.Encode()

	var decoded orsGeocodeResponse
	header := http.Header{"Authorization": {o.apiKey}}
	if err := getJSON(ctx, o.session, endpoint, header, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", norm, domain.ErrNoResult)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: invalid coordinate format", norm)
	}

	// ORS returns [lon, lat].
	c, err := domain.NewCoordinates(coords[1], coords[0])
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", norm, err)
	}

	return c, nil
}
