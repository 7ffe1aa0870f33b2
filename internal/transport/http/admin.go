package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sehajmakkar/powerplay-assignment/internal/app"
	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

// EventAdmin is the minimal interface needed by the admin endpoints.
type EventAdmin interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Inventory, error)
	ListEvents(ctx context.Context) ([]domain.Inventory, error)
}

// HandleCreateEvent returns an HTTP handler for opening a new seat pool.
func HandleCreateEvent(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		inv, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			EventID:    req.EventID,
			Name:       req.Name,
			TotalSeats: req.TotalSeats,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEventNameRequired):
				writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
			case errors.Is(err, domain.ErrInvalidCapacity):
				writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
			case errors.Is(err, domain.ErrEventExists):
				writeError(w, http.StatusConflict, codeEventAlreadyExists, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(inv))
	}
}

// HandleListEvents returns an HTTP handler listing all seat pools.
func HandleListEvents(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventories, err := svc.ListEvents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		out := make([]eventResponse, 0, len(inventories))
		for _, inv := range inventories {
			out = append(out, toEventResponse(inv))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type createEventRequest struct {
	EventID    string `json:"eventId"`
	Name       string `json:"name"`
	TotalSeats int    `json:"totalSeats"`
}

type eventResponse struct {
	EventID        string `json:"eventId"`
	Name           string `json:"name"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
	Version        int64  `json:"version"`
}

func toEventResponse(inv domain.Inventory) eventResponse {
	return eventResponse{
		EventID:        inv.EventID,
		Name:           inv.Name,
		TotalSeats:     inv.TotalSeats,
		AvailableSeats: inv.AvailableSeats,
		Version:        inv.Version,
	}
}
