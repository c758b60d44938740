package ports

import (
	"context"
	"time"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

// CreateEventInput is the DTO passed from the transport layer to EventService.
type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
	Location    string
	CreatedBy   string
}

// EventWeather is the result of a weather lookup for an event.
type EventWeather struct {
	EventID  string
	Location string
	Weather  map[string]any
}

// EventService defines use-case operations for campus events.
type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	Weather(ctx context.Context, id string) (*EventWeather, error)
}

// GeocodeJob asks the enrichment workers to resolve an event's location.
type GeocodeJob struct {
	EventID  string
	Location string
}

// Geocoder resolves a free-form address. A nil result with a nil error means
// the address could not be resolved or geocoding is disabled.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinates, error)
}

// WeatherProvider fetches current conditions for a point.
type WeatherProvider interface {
	Current(ctx context.Context, c domain.Coordinates) (map[string]any, error)
}

// EventEnricher processes geocoding jobs off the request path.
type EventEnricher interface {
	Process(ctx context.Context, job GeocodeJob) error
}
