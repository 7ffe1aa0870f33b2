package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sehajmakkar/powerplay-assignment/internal/clock"
	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
	"github.com/sehajmakkar/powerplay-assignment/internal/metrics"
)

// InventoryStore is the conditional store the engine runs against. Inventory
// is never mutated except through CompareAndUpdateInventory, which must apply
// the delta and bump the version atomically, and only while the stored
// version still equals expectedVersion; a lost race surfaces as
// domain.ErrVersionConflict.
type InventoryStore interface {
	GetInventory(ctx context.Context, eventID string) (domain.Inventory, error)
	CompareAndUpdateInventory(ctx context.Context, eventID string, expectedVersion int64, seatDelta int) (domain.Inventory, error)
	CreateReservation(ctx context.Context, res domain.Reservation) error
	GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID string, from, to domain.ReservationStatus) error
	CountConfirmedReservations(ctx context.Context, eventID string) (int, error)
}

const defaultMaxAttempts = 3

const (
	opReserve = "reserve"
	opCancel  = "cancel"

	outcomeSuccess      = "success"
	outcomeInsufficient = "insufficient_capacity"
	outcomeContention   = "contention"
	outcomeNotFound     = "not_found"
	outcomeInconsistent = "inconsistent"
)

type ReservationService struct {
	store        InventoryStore
	clock        clock.Clock
	logger       zerolog.Logger
	metrics      *metrics.EngineMetrics
	maxAttempts  int
	retryBackoff time.Duration
}

func NewReservationService(store InventoryStore, clk clock.Clock, logger zerolog.Logger, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		store:       store,
		clock:       clk,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithEngineMetrics attaches Prometheus metrics to the engine.
func WithEngineMetrics(m *metrics.EngineMetrics) ReservationServiceOption {
	return func(s *ReservationService) {
		s.metrics = m
	}
}

// WithRetryBackoff adds a fixed pause between conflicting attempts. The
// default is no pause: conflicts are retried immediately within the attempt
// bound.
func WithRetryBackoff(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.retryBackoff = d
		}
	}
}

// WithMaxAttempts overrides the conditional-write attempt bound.
func WithMaxAttempts(n int) ReservationServiceOption {
	return func(s *ReservationService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

type ReserveInput struct {
	EventID   string
	PartnerID string
	Seats     int
}

// Reserve allocates seats from the event's pool. It re-reads the inventory
// and retries the conditional decrement on version conflicts, at most
// maxAttempts times; exhaustion returns domain.ErrContention so the caller
// can distinguish a crowded pool from an empty one.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (domain.Reservation, error) {
	partnerID := strings.TrimSpace(in.PartnerID)
	if partnerID == "" {
		return domain.Reservation{}, domain.ErrPartnerRequired
	}
	if in.Seats < domain.MinSeatsPerReservation || in.Seats > domain.MaxSeatsPerReservation {
		return domain.Reservation{}, domain.ErrInvalidSeats
	}

	start := s.clock.Now()
	defer func() {
		s.metrics.ObserveDuration(opReserve, s.clock.Now().Sub(start))
	}()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.metrics.IncAttempt(opReserve)

		inv, err := s.store.GetInventory(ctx, in.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrEventNotFound) {
				s.metrics.IncOutcome(opReserve, outcomeNotFound)
			}
			return domain.Reservation{}, err
		}
		if inv.AvailableSeats < in.Seats {
			// A real-state rejection, not a race; retrying cannot help.
			s.metrics.IncOutcome(opReserve, outcomeInsufficient)
			return domain.Reservation{}, domain.ErrInsufficientCapacity
		}

		if _, err := s.store.CompareAndUpdateInventory(ctx, in.EventID, inv.Version, -in.Seats); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				s.metrics.IncConflict(opReserve)
				if err := s.pause(ctx); err != nil {
					return domain.Reservation{}, err
				}
				continue
			}
			return domain.Reservation{}, err
		}

		res := domain.Reservation{
			ReservationID: newID(),
			EventID:       in.EventID,
			PartnerID:     partnerID,
			Seats:         in.Seats,
			Status:        domain.ReservationStatusConfirmed,
			CreatedAt:     s.clock.Now(),
		}
		if err := s.store.CreateReservation(ctx, res); err != nil {
			// The decrement already committed, so the pool now under-counts
			// availability rather than risking a double booking.
			s.logger.Error().Err(err).
				Str("event_id", in.EventID).
				Str("partner_id", partnerID).
				Int("seats", in.Seats).
				Msg("seats debited but reservation not persisted")
			return domain.Reservation{}, err
		}

		s.metrics.IncOutcome(opReserve, outcomeSuccess)
		return res, nil
	}

	s.logger.Warn().
		Str("event_id", in.EventID).
		Str("partner_id", partnerID).
		Int("seats", in.Seats).
		Int("attempts", s.maxAttempts).
		Msg("reserve gave up after repeated version conflicts")
	s.metrics.IncOutcome(opReserve, outcomeContention)
	return domain.Reservation{}, domain.ErrContention
}

// Cancel returns a reservation's seats to the pool and marks it cancelled.
// The credit is applied first; if the status flip then fails, the single
// reservation is inconsistent and the error is surfaced rather than retried,
// since retrying the whole operation would credit the seats twice.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) error {
	start := s.clock.Now()
	defer func() {
		s.metrics.ObserveDuration(opCancel, s.clock.Now().Sub(start))
	}()

	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			s.metrics.IncOutcome(opCancel, outcomeNotFound)
		}
		return err
	}
	if res.Status == domain.ReservationStatusCancelled {
		return domain.ErrAlreadyCancelled
	}

	credited := false
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.metrics.IncAttempt(opCancel)

		inv, err := s.store.GetInventory(ctx, res.EventID)
		if err != nil {
			return err
		}
		if _, err := s.store.CompareAndUpdateInventory(ctx, res.EventID, inv.Version, res.Seats); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				s.metrics.IncConflict(opCancel)
				if err := s.pause(ctx); err != nil {
					return err
				}
				continue
			}
			return err
		}
		credited = true
		break
	}
	if !credited {
		s.logger.Warn().
			Str("reservation_id", reservationID).
			Str("event_id", res.EventID).
			Int("attempts", s.maxAttempts).
			Msg("cancel gave up after repeated version conflicts")
		s.metrics.IncOutcome(opCancel, outcomeContention)
		return domain.ErrContention
	}

	if err := s.store.UpdateReservationStatus(ctx, reservationID, domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled); err != nil {
		s.logger.Error().Err(err).
			Str("reservation_id", reservationID).
			Str("event_id", res.EventID).
			Int("seats", res.Seats).
			Msg("inventory credited but reservation status update failed")
		s.metrics.IncInconsistency()
		s.metrics.IncOutcome(opCancel, outcomeInconsistent)
		return domain.ErrInconsistentCancellation
	}

	s.metrics.IncOutcome(opCancel, outcomeSuccess)
	return nil
}

type EventSummary struct {
	EventID               string
	Name                  string
	TotalSeats            int
	AvailableSeats        int
	Version               int64
	ConfirmedReservations int
}

// Summary returns a point-in-time snapshot of the event's pool. Staleness
// under concurrent writers is expected; the snapshot is never used for
// reservation decisions.
func (s *ReservationService) Summary(ctx context.Context, eventID string) (EventSummary, error) {
	inv, err := s.store.GetInventory(ctx, eventID)
	if err != nil {
		return EventSummary{}, err
	}
	count, err := s.store.CountConfirmedReservations(ctx, eventID)
	if err != nil {
		return EventSummary{}, err
	}
	return EventSummary{
		EventID:               inv.EventID,
		Name:                  inv.Name,
		TotalSeats:            inv.TotalSeats,
		AvailableSeats:        inv.AvailableSeats,
		Version:               inv.Version,
		ConfirmedReservations: count,
	}, nil
}

func (s *ReservationService) pause(ctx context.Context) error {
	if s.retryBackoff <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.retryBackoff):
		return nil
	}
}
