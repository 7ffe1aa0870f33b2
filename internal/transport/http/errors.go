package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codePartnerRequired      = "partner_id_required"
	codeInvalidSeats         = "invalid_seats"
	codeEventNameRequired    = "event_name_required"
	codeInvalidCapacity      = "invalid_capacity"
	codeEventNotFound        = "event_not_found"
	codeEventAlreadyExists   = "event_already_exists"
	codeReservationNotFound  = "reservation_not_found"
	codeAlreadyCancelled     = "reservation_already_cancelled"
	codeInsufficientCapacity = "insufficient_capacity"
	codeContention           = "contention"
	codeInconsistentCancel   = "cancellation_inconsistent"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
