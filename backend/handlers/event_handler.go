package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// EventRequest is the body of POST /events
type EventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// EventUpdateRequest is the body of PUT /events/{id}. Description and location
// may be cleared with an explicit null.
type EventUpdateRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,min=1"`
	Description models.Nullable[string] `json:"description"`
	Location    models.Nullable[string] `json:"location"`
	StartDate   *time.Time              `json:"start_date"`
	EndDate     *time.Time              `json:"end_date"`
}

// EventService defines the event operations used by EventHandler
type EventService interface {
	List(ctx context.Context) ([]*models.Event, error)
	Upcoming(ctx context.Context, limit int) ([]*models.Event, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, p *policy.Principal, in models.EventInput) (*models.Event, error)
	Update(ctx context.Context, p *policy.Principal, id int64, patch models.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, p *policy.Principal, id int64) error
}

// EventHandler handles event requests
type EventHandler struct {
	service EventService
	logger  *zap.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"events": events}))
}

// HandleUpcoming handles GET /events/upcoming?limit=
// A missing or malformed limit falls back to the service default.
func (h *EventHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.service.Upcoming(r.Context(), limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"events": events}))
}

// HandleGet handles GET /events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "event")
	if !ok {
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"event": event}))
}

// HandleCreate handles POST /events
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	event, err := h.service.Create(r.Context(), principal(r), models.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteCreated(w, utils.Envelope{
		"message": "Event created successfully",
		"event":   event,
	}))
}

// HandleUpdate handles PUT /events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "event")
	if !ok {
		return
	}

	var req EventUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	event, err := h.service.Update(r.Context(), principal(r), id, models.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "Event updated successfully",
		"event":   event,
	}))
}

// HandleDelete handles DELETE /events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "event")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Event deleted successfully"))
}
