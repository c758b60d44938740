package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusevent/campusevent-api/internal/api/middleware"
	"github.com/campusevent/campusevent-api/internal/core/domain"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

type stubEventService struct {
	created ports.CreateEventInput
	patched domain.EventPatch
	event   *domain.Event
	weather *ports.EventWeather
	err     error
	deleted string
}

func (s *stubEventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Event{ID: "evt-1", Title: in.Title, Date: in.Date, Location: in.Location, CreatedBy: in.CreatedBy}, nil
}

func (s *stubEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.event, s.err
}

func (s *stubEventService) List(ctx context.Context) ([]*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Event{s.event}, nil
}

func (s *stubEventService) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	s.patched = patch
	return s.event, s.err
}

func (s *stubEventService) Delete(ctx context.Context, id string) error {
	s.deleted = id
	return s.err
}

func (s *stubEventService) Weather(ctx context.Context, id string) (*ports.EventWeather, error) {
	return s.weather, s.err
}

var caller = &domain.User{ID: "65f0000000000000000000a1"}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithAuth(req.Context(), domain.AuthContext{User: caller}))
}

func TestEventHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubEventService{}
	h := NewEventHandler(svc)

	rec := httptest.NewRecorder()
	req := authed(jsonRequest(http.MethodPost, "/events",
		`{"title":" Open day ","date":"2026-12-15","location":"Main Hall","time":"10:00"}`))
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created.CreatedBy != caller.ID {
		t.Fatalf("creator not taken from session: %q", svc.created.CreatedBy)
	}
	if svc.created.Title != "Open day" {
		t.Fatalf("title not trimmed: %q", svc.created.Title)
	}
	want := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)
	if !svc.created.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, svc.created.Date)
	}
}

func TestEventHandler_Create_RFC3339Date(t *testing.T) {
	e := newEcho()
	svc := &stubEventService{}
	h := NewEventHandler(svc)

	req := authed(jsonRequest(http.MethodPost, "/events",
		`{"title":"Open day","date":"2026-12-15T09:30:00+07:00","location":"Main Hall"}`))
	if err := h.Create(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 12, 15, 2, 30, 0, 0, time.UTC)
	if !svc.created.Date.Equal(want) {
		t.Fatalf("expected %v, got %v", want, svc.created.Date)
	}
}

func TestEventHandler_Create_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"date":"2026-12-15","location":"Main Hall"}`},
		{"missing location", `{"title":"x","date":"2026-12-15"}`},
		{"bad date", `{"title":"x","date":"15/12/2026","location":"Main Hall"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			h := NewEventHandler(&stubEventService{})

			err := h.Create(e.NewContext(authed(jsonRequest(http.MethodPost, "/events", tc.body)), httptest.NewRecorder()))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEventHandler_Create_WithoutSession(t *testing.T) {
	e := newEcho()
	h := NewEventHandler(&stubEventService{})

	req := jsonRequest(http.MethodPost, "/events", `{"title":"x","date":"2026-12-15","location":"y"}`)
	if err := h.Create(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestEventHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	h := NewEventHandler(&stubEventService{err: domain.ErrEventNotFound})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/events/nope", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := h.Get(c); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventHandler_Update_Partial(t *testing.T) {
	e := newEcho()
	svc := &stubEventService{event: &domain.Event{ID: "evt-1", Title: "Renamed"}}
	h := NewEventHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(authed(jsonRequest(http.MethodPut, "/events/evt-1", `{"title":"Renamed","date":"2027-01-02"}`)), rec)
	c.SetParamNames("id")
	c.SetParamValues("evt-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.patched.Title == nil || *svc.patched.Title != "Renamed" {
		t.Fatalf("title not patched")
	}
	if svc.patched.Location != nil || svc.patched.Description != nil {
		t.Fatalf("absent fields must stay nil: %+v", svc.patched)
	}
	if svc.patched.Date == nil || svc.patched.Date.Year() != 2027 {
		t.Fatalf("date not patched")
	}
}

func TestEventHandler_Delete(t *testing.T) {
	e := newEcho()
	svc := &stubEventService{}
	h := NewEventHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(authed(httptest.NewRequest(http.MethodDelete, "/events/evt-1", nil)), rec)
	c.SetParamNames("id")
	c.SetParamValues("evt-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.deleted != "evt-1" {
		t.Fatalf("expected evt-1 deleted, got %q", svc.deleted)
	}

	var body messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Event deleted" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestEventHandler_Weather(t *testing.T) {
	e := newEcho()
	svc := &stubEventService{weather: &ports.EventWeather{
		EventID:  "evt-1",
		Location: "Main Hall",
		Weather:  map[string]any{"name": "Depok"},
	}}
	h := NewEventHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/events/evt-1/weather", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("evt-1")

	if err := h.Weather(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body weatherResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.EventID != "evt-1" || body.Weather["name"] != "Depok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRoot(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := Root(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
