package geocode

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Nominatim geocodes addresses against the OpenStreetMap search API.
// It performs a single lookup per call; wrap it in Retrying for retries.
type Nominatim struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) (*Nominatim, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("nominatim base url is empty")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}

	return &Nominatim{
		session:   &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}, nil
}

func (n *Nominatim) Name() string { return "nominatim" }

func (n *Nominatim) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint := n.baseURL + "/search?" + q.Encode()

	var places []nominatimPlace
	header := http.Header{"User-Agent": {n.userAgent}}
	if err := getJSON(ctx, n.session, endpoint, header, &places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", address, err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", address, domain.ErrNoResult)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lat: %w", address, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lon: %w", address, err)
	}

	c, err := domain.NewCoordinates(lat, lon)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", address, err)
	}

	return c, nil
}
