package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

const openCageURL = "https://api.opencagedata.com/geocode/v1/json"

// OpenCageGeocoder resolves addresses through the OpenCage forward
// geocoding API. Without an API key it resolves nothing.
type OpenCageGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewOpenCageGeocoder creates a geocoder. httpClient may be nil.
func NewOpenCageGeocoder(apiKey string, httpClient *http.Client, log zerolog.Logger) *OpenCageGeocoder {
	return &OpenCageGeocoder{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: openCageURL,
		client:  newHTTPClient(httpClient),
		log:     log,
	}
}

// Enabled reports whether an API key is configured.
func (g *OpenCageGeocoder) Enabled() bool { return g.apiKey != "" }

type openCageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the best match for address, or nil when geocoding is
// disabled or nothing matched.
func (g *OpenCageGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	if !g.Enabled() {
		g.log.Debug().Msg("geocoding api key not configured, skipping")
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("key", g.apiKey)
	q.Set("limit", "1")
	q.Set("no_annotations", "1")

	var body openCageResponse
	if err := getJSON(ctx, g.client, g.baseURL+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("opencage: %w", err)
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	geo := body.Results[0].Geometry
	return &domain.Coordinates{Lat: geo.Lat, Lng: geo.Lng}, nil
}
