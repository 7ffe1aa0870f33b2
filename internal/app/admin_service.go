package app

import (
	"context"
	"errors"

	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
)

type AdminStore interface {
	GetInventory(ctx context.Context, eventID string) (domain.Inventory, error)
	CreateInventory(ctx context.Context, inv domain.Inventory) error
	ListInventories(ctx context.Context) ([]domain.Inventory, error)
}

type AdminService struct {
	store AdminStore
}

func NewAdminService(store AdminStore) *AdminService {
	return &AdminService{store: store}
}

type CreateEventInput struct {
	EventID    string
	Name       string
	TotalSeats int
}

// CreateEvent opens a new seat pool at full availability, version 0. The
// event id may be supplied (human-readable slugs are common) or left empty to
// get a generated one.
func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Inventory, error) {
	if in.Name == "" {
		return domain.Inventory{}, domain.ErrEventNameRequired
	}
	if in.TotalSeats <= 0 {
		return domain.Inventory{}, domain.ErrInvalidCapacity
	}

	eventID := in.EventID
	if eventID == "" {
		eventID = newID()
	}

	inv := domain.Inventory{
		EventID:        eventID,
		Name:           in.Name,
		TotalSeats:     in.TotalSeats,
		AvailableSeats: in.TotalSeats,
		Version:        0,
	}
	if err := s.store.CreateInventory(ctx, inv); err != nil {
		return domain.Inventory{}, err
	}
	return inv, nil
}

// EnsureEvent creates the event if it does not exist yet and returns the
// stored inventory either way. Used by the startup seed, so it tolerates a
// concurrent creator winning the race.
func (s *AdminService) EnsureEvent(ctx context.Context, in CreateEventInput) (domain.Inventory, error) {
	existing, err := s.store.GetInventory(ctx, in.EventID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrEventNotFound) {
		return domain.Inventory{}, err
	}

	inv, err := s.CreateEvent(ctx, in)
	if err == nil {
		return inv, nil
	}
	if errors.Is(err, domain.ErrEventExists) {
		return s.store.GetInventory(ctx, in.EventID)
	}
	return domain.Inventory{}, err
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Inventory, error) {
	return s.store.ListInventories(ctx)
}
