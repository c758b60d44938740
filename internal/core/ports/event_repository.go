package ports

import (
	"context"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

// EventRepository persists campus events. Lookups by an unknown or malformed
// id return domain.ErrEventNotFound.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	// List returns every event ordered by date ascending.
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	// SetCoordinates stores c only while the event is still at location. It
	// returns domain.ErrEventNotFound when the event was deleted or moved.
	SetCoordinates(ctx context.Context, id, location string, c *domain.Coordinates) error
	SetWeather(ctx context.Context, id string, weather map[string]any) error
}
