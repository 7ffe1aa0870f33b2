package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sehajmakkar/powerplay-assignment/internal/app"
	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

// SeatReserver is the minimal interface needed to reserve seats.
type SeatReserver interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Reservation, error)
}

// ReservationCanceller is the minimal interface needed to cancel a reservation.
type ReservationCanceller interface {
	Cancel(ctx context.Context, reservationID string) error
}

// EventSummarizer is the minimal interface needed to read an event summary.
type EventSummarizer interface {
	Summary(ctx context.Context, eventID string) (app.EventSummary, error)
}

// HandleReserve returns an HTTP handler for reserving seats. Requests that
// omit the event id target defaultEventID.
func HandleReserve(svc SeatReserver, defaultEventID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reserveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if code, msg, ok := req.validate(); !ok {
			writeError(w, http.StatusBadRequest, code, msg)
			return
		}

		eventID := req.EventID
		if eventID == "" {
			eventID = defaultEventID
		}

		res, err := svc.Reserve(r.Context(), app.ReserveInput{
			EventID:   eventID,
			PartnerID: req.PartnerID,
			Seats:     req.Seats,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPartnerRequired):
				writeError(w, http.StatusBadRequest, codePartnerRequired, err.Error())
			case errors.Is(err, domain.ErrInvalidSeats):
				writeError(w, http.StatusBadRequest, codeInvalidSeats, err.Error())
			case errors.Is(err, domain.ErrEventNotFound):
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case errors.Is(err, domain.ErrInsufficientCapacity):
				writeError(w, http.StatusConflict, codeInsufficientCapacity, err.Error())
			case errors.Is(err, domain.ErrContention):
				writeError(w, http.StatusConflict, codeContention, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, reserveResponse{
			ReservationID: res.ReservationID,
			Seats:         res.Seats,
			Status:        string(res.Status),
		})
	}
}

// HandleCancel returns an HTTP handler for cancelling a reservation.
func HandleCancel(svc ReservationCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservationID := chi.URLParam(r, "reservationID")
		if reservationID == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		err := svc.Cancel(r.Context(), reservationID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrReservationNotFound):
				writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
			case errors.Is(err, domain.ErrAlreadyCancelled):
				// Treated as not-found-class: the cancellable resource is gone.
				writeError(w, http.StatusNotFound, codeAlreadyCancelled, err.Error())
			case errors.Is(err, domain.ErrContention):
				writeError(w, http.StatusConflict, codeContention, err.Error())
			case errors.Is(err, domain.ErrInconsistentCancellation):
				writeError(w, http.StatusInternalServerError, codeInconsistentCancel, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSummary returns an HTTP handler for the event summary.
func HandleSummary(svc EventSummarizer, defaultEventID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("eventId")
		if eventID == "" {
			eventID = defaultEventID
		}

		summary, err := svc.Summary(r.Context(), eventID)
		if err != nil {
			if errors.Is(err, domain.ErrEventNotFound) {
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, summaryResponse{
			EventID:          summary.EventID,
			Name:             summary.Name,
			TotalSeats:       summary.TotalSeats,
			AvailableSeats:   summary.AvailableSeats,
			ReservationCount: summary.ConfirmedReservations,
			Version:          summary.Version,
		})
	}
}

type reserveRequest struct {
	EventID   string `json:"eventId"`
	PartnerID string `json:"partnerId"`
	Seats     int    `json:"seats"`
}

func (r reserveRequest) validate() (code, msg string, ok bool) {
	if r.PartnerID == "" {
		return codePartnerRequired, "partnerId is required", false
	}
	if r.Seats < domain.MinSeatsPerReservation || r.Seats > domain.MaxSeatsPerReservation {
		return codeInvalidSeats, "seats must be between 1 and 10", false
	}
	return "", "", true
}

type reserveResponse struct {
	ReservationID string `json:"reservationId"`
	Seats         int    `json:"seats"`
	Status        string `json:"status"`
}

type summaryResponse struct {
	EventID          string `json:"eventId"`
	Name             string `json:"name"`
	TotalSeats       int    `json:"totalSeats"`
	AvailableSeats   int    `json:"availableSeats"`
	ReservationCount int    `json:"reservationCount"`
	Version          int64  `json:"version"`
}
