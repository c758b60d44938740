package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/api/metrics"
	"github.com/campusevent/campusevent-api/internal/core/domain"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

const defaultWeatherTTL = 10 * time.Minute

// WeatherCache wraps a WeatherProvider with a Redis read-through cache.
// Key format: weather:<lat>:<lng> with both rounded to two decimals
// (roughly 1 km), so nearby events share one upstream call.
//
// Cache failures never fail a lookup; the provider is called instead.
type WeatherCache struct {
	client   redis.Cmdable
	provider ports.WeatherProvider
	ttl      time.Duration
	log      zerolog.Logger
}

// NewWeatherCache creates a WeatherCache. If ttl <= 0, defaultWeatherTTL is used.
func NewWeatherCache(client redis.Cmdable, provider ports.WeatherProvider, ttl time.Duration, log zerolog.Logger) *WeatherCache {
	if ttl <= 0 {
		ttl = defaultWeatherTTL
	}
	return &WeatherCache{client: client, provider: provider, ttl: ttl, log: log}
}

// Current returns cached conditions for c, fetching and caching them on a miss.
func (w *WeatherCache) Current(ctx context.Context, c domain.Coordinates) (map[string]any, error) {
	key := weatherKey(c)

	raw, err := w.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var weather map[string]any
		if jerr := json.Unmarshal(raw, &weather); jerr == nil {
			metrics.WeatherCacheTotal.WithLabelValues("hit").Inc()
			return weather, nil
		}
		w.log.Warn().Str("key", key).Msg("discarding unreadable weather cache entry")
	case errors.Is(err, redis.Nil):
		metrics.WeatherCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.WeatherCacheTotal.WithLabelValues("error").Inc()
		w.log.Warn().Err(err).Str("key", key).Msg("weather cache read failed")
	}

	weather, err := w.provider.Current(ctx, c)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(weather)
	if err != nil {
		return nil, fmt.Errorf("encode weather: %w", err)
	}
	if err := w.client.Set(ctx, key, payload, w.ttl).Err(); err != nil {
		w.log.Warn().Err(err).Str("key", key).Msg("weather cache write failed")
	}
	return weather, nil
}

func weatherKey(c domain.Coordinates) string {
	return fmt.Sprintf("weather:%.2f:%.2f", c.Lat, c.Lng)
}
