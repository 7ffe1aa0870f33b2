package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

const (
	inventoryKeyPrefix   = "inventory:"
	reservationKeyPrefix = "reservation:"
	confirmedKeyPrefix   = "confirmed:"
	inventoryIndexKey    = "inventories"
)

const (
	scriptMissing  = -1
	scriptConflict = -2
)

// compareAndUpdateScript performs the version-conditioned seat delta in one
// atomic step server-side. An out-of-range result is reported the same way as
// a stale version; the engine re-reads and classifies.
var compareAndUpdateScript = redis.NewScript(`
local key = KEYS[1]
local expected = tonumber(ARGV[1])
local delta = tonumber(ARGV[2])

if redis.call('EXISTS', key) == 0 then
	return {-1}
end

local version = tonumber(redis.call('HGET', key, 'version'))
if version ~= expected then
	return {-2}
end

local total = tonumber(redis.call('HGET', key, 'total_seats'))
local available = tonumber(redis.call('HGET', key, 'available_seats'))
local next = available + delta
if next < 0 or next > total then
	return {-2}
end

redis.call('HSET', key, 'available_seats', next, 'version', version + 1)
return {0, redis.call('HGET', key, 'name'), total, next, version + 1}
`)

var createInventoryScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1],
	'name', ARGV[1],
	'total_seats', ARGV[2],
	'available_seats', ARGV[3],
	'version', ARGV[4])
redis.call('SADD', KEYS[2], ARGV[5])
return 1
`)

var createReservationScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1],
	'event_id', ARGV[1],
	'partner_id', ARGV[2],
	'seats', ARGV[3],
	'status', ARGV[4],
	'created_at', ARGV[5])
if ARGV[4] == 'confirmed' then
	redis.call('SADD', KEYS[2], ARGV[6])
end
return 1
`)

var updateReservationStatusScript = redis.NewScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 0 then
	return {-1}
end
local status = redis.call('HGET', key, 'status')
if status ~= ARGV[1] then
	return {-2, status}
end
redis.call('HSET', key, 'status', ARGV[2])
if ARGV[1] == 'confirmed' then
	redis.call('SREM', KEYS[2], ARGV[3])
end
return {0}
`)

// Store implements the engine's conditional-store contract on Redis hashes,
// with Lua scripts supplying the atomic compare-and-mutate steps.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func inventoryKey(eventID string) string {
	return inventoryKeyPrefix + eventID
}

func reservationKey(reservationID string) string {
	return reservationKeyPrefix + reservationID
}

func confirmedKey(eventID string) string {
	return confirmedKeyPrefix + eventID
}

func (s *Store) GetInventory(ctx context.Context, eventID string) (domain.Inventory, error) {
	fields, err := s.client.HGetAll(ctx, inventoryKey(eventID)).Result()
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("get inventory: %w", err)
	}
	if len(fields) == 0 {
		return domain.Inventory{}, domain.ErrEventNotFound
	}
	return parseInventory(eventID, fields)
}

func (s *Store) CompareAndUpdateInventory(ctx context.Context, eventID string, expectedVersion int64, seatDelta int) (domain.Inventory, error) {
	raw, err := compareAndUpdateScript.Run(ctx, s.client,
		[]string{inventoryKey(eventID)},
		expectedVersion, seatDelta,
	).Slice()
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("compare and update inventory: %w", err)
	}

	switch code := raw[0].(int64); code {
	case 0:
	case scriptMissing:
		return domain.Inventory{}, domain.ErrEventNotFound
	case scriptConflict:
		return domain.Inventory{}, domain.ErrVersionConflict
	default:
		return domain.Inventory{}, fmt.Errorf("compare and update inventory: unexpected script result %d", code)
	}

	name, _ := raw[1].(string)
	return domain.Inventory{
		EventID:        eventID,
		Name:           name,
		TotalSeats:     int(raw[2].(int64)),
		AvailableSeats: int(raw[3].(int64)),
		Version:        raw[4].(int64),
	}, nil
}

func (s *Store) CreateInventory(ctx context.Context, inv domain.Inventory) error {
	created, err := createInventoryScript.Run(ctx, s.client,
		[]string{inventoryKey(inv.EventID), inventoryIndexKey},
		inv.Name, inv.TotalSeats, inv.AvailableSeats, inv.Version, inv.EventID,
	).Int()
	if err != nil {
		return fmt.Errorf("create inventory: %w", err)
	}
	if created == 0 {
		return domain.ErrEventExists
	}
	return nil
}

func (s *Store) ListInventories(ctx context.Context) ([]domain.Inventory, error) {
	ids, err := s.client.SMembers(ctx, inventoryIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}

	out := make([]domain.Inventory, 0, len(ids))
	for _, id := range ids {
		inv, err := s.GetInventory(ctx, id)
		if errors.Is(err, domain.ErrEventNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *Store) CreateReservation(ctx context.Context, res domain.Reservation) error {
	created, err := createReservationScript.Run(ctx, s.client,
		[]string{reservationKey(res.ReservationID), confirmedKey(res.EventID)},
		res.EventID,
		res.PartnerID,
		res.Seats,
		string(res.Status),
		res.CreatedAt.UTC().Format(time.RFC3339Nano),
		res.ReservationID,
	).Int()
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	if created == 0 {
		return domain.ErrDuplicateReservation
	}
	return nil
}

func (s *Store) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	fields, err := s.client.HGetAll(ctx, reservationKey(reservationID)).Result()
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	if len(fields) == 0 {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}

	seats, err := strconv.Atoi(fields["seats"])
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("parse reservation seats: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("parse reservation created_at: %w", err)
	}

	return domain.Reservation{
		ReservationID: reservationID,
		EventID:       fields["event_id"],
		PartnerID:     fields["partner_id"],
		Seats:         seats,
		Status:        domain.ReservationStatus(fields["status"]),
		CreatedAt:     createdAt,
	}, nil
}

func (s *Store) UpdateReservationStatus(ctx context.Context, reservationID string, from, to domain.ReservationStatus) error {
	res, err := s.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	raw, err := updateReservationStatusScript.Run(ctx, s.client,
		[]string{reservationKey(reservationID), confirmedKey(res.EventID)},
		string(from), string(to), reservationID,
	).Slice()
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}

	switch code := raw[0].(int64); code {
	case 0:
		return nil
	case scriptMissing:
		return domain.ErrReservationNotFound
	case scriptConflict:
		if current, _ := raw[1].(string); domain.ReservationStatus(current) == to {
			return domain.ErrAlreadyCancelled
		}
		return fmt.Errorf("reservation %s in unexpected status", reservationID)
	default:
		return fmt.Errorf("update reservation status: unexpected script result %d", code)
	}
}

func (s *Store) CountConfirmedReservations(ctx context.Context, eventID string) (int, error) {
	count, err := s.client.SCard(ctx, confirmedKey(eventID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count confirmed reservations: %w", err)
	}
	return int(count), nil
}

func parseInventory(eventID string, fields map[string]string) (domain.Inventory, error) {
	total, err := strconv.Atoi(fields["total_seats"])
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("parse inventory total_seats: %w", err)
	}
	available, err := strconv.Atoi(fields["available_seats"])
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("parse inventory available_seats: %w", err)
	}
	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("parse inventory version: %w", err)
	}
	return domain.Inventory{
		EventID:        eventID,
		Name:           fields["name"],
		TotalSeats:     total,
		AvailableSeats: available,
		Version:        version,
	}, nil
}
