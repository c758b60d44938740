package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/core/domain"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

// GeocodeQueue abstracts the asynchronous enrichment dispatcher.
type GeocodeQueue interface {
	Enqueue(job ports.GeocodeJob)
}

type eventService struct {
	repo    ports.EventRepository
	queue   GeocodeQueue
	weather ports.WeatherProvider
	log     zerolog.Logger
}

// NewEventService returns an EventService implementation. queue may be nil,
// in which case events are stored without coordinates.
func NewEventService(
	repo ports.EventRepository,
	queue GeocodeQueue,
	weather ports.WeatherProvider,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{repo: repo, queue: queue, weather: weather, log: log}
}

func (s *eventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Location) == "" || in.Date.IsZero() {
		return nil, domain.ErrMissingFields
	}

	created, err := s.repo.Create(ctx, &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		CreatedBy:   in.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.enqueueGeocode(created.ID, created.Location)
	s.log.Info().Str("event_id", created.ID).Str("created_by", in.CreatedBy).Msg("event created")
	return created, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.List(ctx)
}

// Update applies a partial change. A new location drops the old coordinates
// and schedules a fresh geocode.
func (s *eventService) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if patch.Location != nil {
		s.enqueueGeocode(updated.ID, updated.Location)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.log.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

// Weather fetches current conditions for the event and stores the snapshot
// on the event. A failed write does not fail the lookup.
func (s *eventService) Weather(ctx context.Context, id string) (*ports.EventWeather, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	coords, ok := event.Coordinates()
	if !ok {
		return nil, domain.ErrEventNoCoordinates
	}

	weather, err := s.weather.Current(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWeatherUnavailable, err)
	}

	if err := s.repo.SetWeather(ctx, id, weather); err != nil {
		s.log.Warn().Err(err).Str("event_id", id).Msg("failed to store weather snapshot")
	}

	return &ports.EventWeather{EventID: event.ID, Location: event.Location, Weather: weather}, nil
}

func (s *eventService) enqueueGeocode(id, location string) {
	if s.queue == nil || location == "" {
		return
	}
	s.queue.Enqueue(ports.GeocodeJob{EventID: id, Location: location})
}

type enrichmentService struct {
	repo     ports.EventRepository
	geocoder ports.Geocoder
	log      zerolog.Logger
}

// NewEnrichmentService returns the worker-side geocoding processor.
func NewEnrichmentService(repo ports.EventRepository, geocoder ports.Geocoder, log zerolog.Logger) ports.EventEnricher {
	return &enrichmentService{repo: repo, geocoder: geocoder, log: log}
}

// Process geocodes the job's location and stores the result. Geocoding is
// best effort: unresolved addresses are logged and skipped.
func (s *enrichmentService) Process(ctx context.Context, job ports.GeocodeJob) error {
	coords, err := s.geocoder.Geocode(ctx, job.Location)
	if err != nil {
		return fmt.Errorf("geocode %q: %w", job.Location, err)
	}
	if coords == nil {
		s.log.Debug().Str("event_id", job.EventID).Str("location", job.Location).Msg("location not geocoded")
		return nil
	}

	if err := s.repo.SetCoordinates(ctx, job.EventID, job.Location, coords); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			s.log.Debug().Str("event_id", job.EventID).Str("location", job.Location).
				Msg("event removed or relocated before geocoding finished")
			return nil
		}
		return fmt.Errorf("store coordinates: %w", err)
	}

	s.log.Info().
		Str("event_id", job.EventID).
		Float64("lat", coords.Lat).
		Float64("lng", coords.Lng).
		Msg("event geocoded")
	return nil
}
