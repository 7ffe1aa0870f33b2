package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

func (s *Store) GetInventory(ctx context.Context, eventID string) (domain.Inventory, error) {
	const query = `
SELECT event_id, name, total_seats, available_seats, version
FROM inventories
WHERE event_id = $1`

	var inv domain.Inventory
	err := s.pool.QueryRow(ctx, query, eventID).
		Scan(&inv.EventID, &inv.Name, &inv.TotalSeats, &inv.AvailableSeats, &inv.Version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Inventory{}, domain.ErrEventNotFound
		}
		return domain.Inventory{}, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// CompareAndUpdateInventory applies seatDelta and bumps the version in one
// conditional UPDATE. Zero rows means the stored version moved on (or the
// delta would push available_seats out of range, which the WHERE clause
// re-checks as a safety net); both cases surface as ErrVersionConflict and
// the engine decides whether to retry.
func (s *Store) CompareAndUpdateInventory(ctx context.Context, eventID string, expectedVersion int64, seatDelta int) (domain.Inventory, error) {
	const stmt = `
UPDATE inventories
SET available_seats = available_seats + $3,
    version = version + 1,
    updated_at = NOW()
WHERE event_id = $1
  AND version = $2
  AND available_seats + $3 >= 0
  AND available_seats + $3 <= total_seats
RETURNING event_id, name, total_seats, available_seats, version`

	var inv domain.Inventory
	err := s.pool.QueryRow(ctx, stmt, eventID, expectedVersion, seatDelta).
		Scan(&inv.EventID, &inv.Name, &inv.TotalSeats, &inv.AvailableSeats, &inv.Version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Inventory{}, domain.ErrVersionConflict
		}
		return domain.Inventory{}, fmt.Errorf("compare and update inventory: %w", err)
	}
	return inv, nil
}

func (s *Store) CreateInventory(ctx context.Context, inv domain.Inventory) error {
	const stmt = `
INSERT INTO inventories (event_id, name, total_seats, available_seats, version)
VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, stmt,
		inv.EventID,
		inv.Name,
		inv.TotalSeats,
		inv.AvailableSeats,
		inv.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEventExists
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidCapacity
		}
		return fmt.Errorf("create inventory: %w", err)
	}
	return nil
}

func (s *Store) ListInventories(ctx context.Context) ([]domain.Inventory, error) {
	const query = `
SELECT event_id, name, total_seats, available_seats, version
FROM inventories
ORDER BY created_at, event_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()

	var out []domain.Inventory
	for rows.Next() {
		var inv domain.Inventory
		if err := rows.Scan(&inv.EventID, &inv.Name, &inv.TotalSeats, &inv.AvailableSeats, &inv.Version); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	return out, nil
}
