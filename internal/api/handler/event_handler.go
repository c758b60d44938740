package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusevent/campusevent-api/internal/api/metrics"
	"github.com/campusevent/campusevent-api/internal/core/domain"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

// EventHandler handles campus event CRUD and the weather lookup.
type EventHandler struct {
	service ports.EventService
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// List handles GET /events.
//
// @Summary      List events
// @Description  Returns every event sorted by date, earliest first.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   eventResponse
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Create handles POST /events. Geocoding of the location happens in the
// background; the response never waits for it.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  eventResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	return withAuth(h.create)(c)
}

func (h *EventHandler) create(c echo.Context, auth domain.AuthContext) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	event, err := h.service.Create(c.Request().Context(), ports.CreateEventInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Location:    strings.TrimSpace(req.Location),
		CreatedBy:   auth.UserID(),
	})
	if err != nil {
		return err
	}

	metrics.EventWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toEventResponse(event))
}

// Get handles GET /events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  eventResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Update handles PUT /events/:id with partial semantics.
//
// @Summary      Update an event
// @Description  Only the fields present in the body change. A new location clears the coordinates until it is geocoded again.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event ID"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  eventResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch := domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Location:    req.Location,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		patch.Date = &date
	}

	event, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	metrics.EventWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Delete handles DELETE /events/:id. The route also requires the caller's API key.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Param        id         path      string  true   "Event ID"
// @Param        x-api-key  header    string  false  "API key"
// @Param        token      query     string  false  "API key (fallback)"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.EventWritesTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Event deleted"})
}

// Weather handles GET /events/:id/weather.
//
// @Summary      Current weather at an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  weatherResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      502  {object}  messageResponse
// @Router       /events/{id}/weather [get]
func (h *EventHandler) Weather(c echo.Context) error {
	w, err := h.service.Weather(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, weatherResponse{
		EventID:  w.EventID,
		Location: w.Location,
		Weather:  w.Weather,
	})
}
