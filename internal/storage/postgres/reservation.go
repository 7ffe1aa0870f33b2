package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

func (s *Store) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (reservation_id, event_id, partner_id, seats, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, stmt,
		res.ReservationID,
		res.EventID,
		res.PartnerID,
		res.Seats,
		res.Status,
		res.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReservation
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidSeats
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (s *Store) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	const query = `
SELECT reservation_id, event_id, partner_id, seats, status, created_at
FROM reservations
WHERE reservation_id = $1`

	var res domain.Reservation
	var status string
	err := s.pool.QueryRow(ctx, query, reservationID).
		Scan(&res.ReservationID, &res.EventID, &res.PartnerID, &res.Seats, &status, &res.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.Status = domain.ReservationStatus(status)
	return res, nil
}

// UpdateReservationStatus flips the status only while the stored status still
// equals from, so a raced second cancel cannot flip (or credit) twice.
func (s *Store) UpdateReservationStatus(ctx context.Context, reservationID string, from, to domain.ReservationStatus) error {
	const stmt = `UPDATE reservations SET status = $3 WHERE reservation_id = $1 AND status = $2`

	tag, err := s.pool.Exec(ctx, stmt, reservationID, from, to)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := s.pool.QueryRow(ctx, `SELECT status FROM reservations WHERE reservation_id = $1`, reservationID).Scan(&current)
		if err == pgx.ErrNoRows {
			return domain.ErrReservationNotFound
		}
		if err != nil {
			return fmt.Errorf("check reservation status: %w", err)
		}
		if domain.ReservationStatus(current) == to {
			return domain.ErrAlreadyCancelled
		}
		return fmt.Errorf("reservation %s in unexpected status %s", reservationID, current)
	}
	return nil
}

func (s *Store) CountConfirmedReservations(ctx context.Context, eventID string) (int, error) {
	const query = `SELECT COUNT(*) FROM reservations WHERE event_id = $1 AND status = $2`

	var count int
	if err := s.pool.QueryRow(ctx, query, eventID, domain.ReservationStatusConfirmed).Scan(&count); err != nil {
		return 0, fmt.Errorf("count confirmed reservations: %w", err)
	}
	return count, nil
}
