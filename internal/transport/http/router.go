package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sehajmakkar/powerplay-assignment/internal/app"
	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

// ReservationEngine bundles the reservation operations the router exposes.
type ReservationEngine interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Reservation, error)
	Cancel(ctx context.Context, reservationID string) error
	Summary(ctx context.Context, eventID string) (app.EventSummary, error)
}

type RouterDeps struct {
	Engine         ReservationEngine
	Admin          EventAdmin
	DefaultEventID string
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter wires all endpoints onto a chi mux.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", HealthHandler)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/reservations", HandleSummary(deps.Engine, deps.DefaultEventID))
	r.Post("/reservations", HandleReserve(deps.Engine, deps.DefaultEventID))
	r.Delete("/reservations/{reservationID}", HandleCancel(deps.Engine))

	r.Post("/admin/events", HandleCreateEvent(deps.Admin))
	r.Get("/admin/events", HandleListEvents(deps.Admin))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})

	return r
}
