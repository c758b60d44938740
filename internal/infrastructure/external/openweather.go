package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// ErrWeatherNotConfigured is returned when no OpenWeather key is set.
var ErrWeatherNotConfigured = errors.New("openweather api key not configured")

// OpenWeatherClient fetches current conditions in metric units.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenWeatherClient creates a client. httpClient may be nil.
func NewOpenWeatherClient(apiKey string, httpClient *http.Client) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: openWeatherURL,
		client:  newHTTPClient(httpClient),
	}
}

// Current returns the raw OpenWeather payload for c.
func (w *OpenWeatherClient) Current(ctx context.Context, c domain.Coordinates) (map[string]any, error) {
	if w.apiKey == "" {
		return nil, ErrWeatherNotConfigured
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", w.apiKey)

	var body map[string]any
	if err := getJSON(ctx, w.client, w.baseURL+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("openweather: %w", err)
	}
	return body, nil
}
