package handler

import (
	"time"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

// dateLayout is the plain calendar form accepted alongside RFC 3339.
const dateLayout = "2006-01-02"

// --- Request / Response types ---

type createEventRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Date        string `json:"date"        validate:"required"`
	Time        string `json:"time"        validate:"max=50"`
	Location    string `json:"location"    validate:"required,max=300"`
}

// updateEventRequest carries a partial update; absent fields are left as is.
type updateEventRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Date        *string `json:"date"`
	Time        *string `json:"time"        validate:"omitempty,max=50"`
	Location    *string `json:"location"    validate:"omitempty,min=1,max=300"`
}

type eventResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Date        time.Time      `json:"date"`
	Time        string         `json:"time,omitempty"`
	Location    string         `json:"location"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	WeatherInfo map[string]any `json:"weatherInfo,omitempty"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type weatherResponse struct {
	EventID  string         `json:"eventId"`
	Location string         `json:"location"`
	Weather  map[string]any `json:"weather"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// parseDate accepts "2006-01-02" or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &ValidationError{Fields: []string{"date must be YYYY-MM-DD or RFC 3339"}}
	}
	return t.UTC(), nil
}

func toEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Time:        e.Time,
		Location:    e.Location,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		WeatherInfo: e.WeatherInfo,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEventResponses(events []*domain.Event) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}
