package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/charitymap/charitymap/internal/domain"
	"github.com/charitymap/charitymap/internal/errors"
	mw "github.com/charitymap/charitymap/internal/middleware"
	"github.com/charitymap/charitymap/internal/utils"
)

type createEventRequest struct {
	Name        string   `validate:"required" json:"name"`
	Host        string   `json:"host"`
	Date        string   `validate:"required" json:"date"`
	Location    string   `validate:"required" json:"location"`
	Latitude    *float64 `validate:"omitempty,gte=-90,lte=90" json:"latitude"`
	Longitude   *float64 `validate:"omitempty,gte=-180,lte=180" json:"longitude"`
	Description string   `json:"description"`
}

type updateEventRequest struct {
	Name        *string  `json:"name"`
	Host        *string  `json:"host"`
	Date        *string  `json:"date"`
	Location    *string  `json:"location"`
	Latitude    *float64 `validate:"omitempty,gte=-90,lte=90" json:"latitude"`
	Longitude   *float64 `validate:"omitempty,gte=-180,lte=180" json:"longitude"`
	Description *string  `json:"description"`
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseEventId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	event, err := h.events.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	if actor == nil {
		utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Token is missing"))
		return
	}

	var body createEventRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	date, err := domain.ParseDate(body.Date)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest(err.Error()))
		return
	}

	event, err := h.events.Create(actor, domain.Event{
		Name:        body.Name,
		Host:        body.Host,
		Date:        date,
		Location:    body.Location,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		Description: body.Description,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	if actor == nil {
		utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Token is missing"))
		return
	}

	id, err := parseEventId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body updateEventRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	patch := domain.EventPatch{
		Name:        body.Name,
		Host:        body.Host,
		Location:    body.Location,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		Description: body.Description,
	}
	if body.Date != nil {
		date, err := domain.ParseDate(*body.Date)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, errors.BadRequest(err.Error()))
			return
		}
		patch.Date = &date
	}

	event, err := h.events.Update(actor, id, patch)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	if actor == nil {
		utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Token is missing"))
		return
	}

	id, err := parseEventId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.events.Delete(actor, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	if actor == nil {
		utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Token is missing"))
		return
	}

	events, err := h.events.ListByUser(actor.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, events)
}

func parseEventId(r *http.Request) (domain.EventId, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.NotFound("Event not found")
	}
	return id, nil
}
