package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/sehajmakkar/powerplay-assignment/internal/domain"
	"github.com/sehajmakkar/powerplay-assignment/internal/testutil"
)

func TestStoreInventory(t *testing.T) {
	pool := testutil.NewTestPool(t)
	store := NewStore(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetInventory returns record and ErrEventNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		testutil.InsertInventory(t, ctx, pool, domain.Inventory{
			EventID: "meetup-2025", Name: "Meet-up", TotalSeats: 500, AvailableSeats: 500, Version: 0,
		})

		inv, err := store.GetInventory(ctx, "meetup-2025")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inv.Name != "Meet-up" || inv.TotalSeats != 500 || inv.AvailableSeats != 500 || inv.Version != 0 {
			t.Fatalf("unexpected inventory: %+v", inv)
		}

		if _, err := store.GetInventory(ctx, "missing"); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("CompareAndUpdateInventory applies delta and bumps version", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, domain.Inventory{
			EventID: "meetup-2025", Name: "Meet-up", TotalSeats: 500, AvailableSeats: 500, Version: 0,
		})

		inv, err := store.CompareAndUpdateInventory(ctx, "meetup-2025", 0, -3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inv.AvailableSeats != 497 || inv.Version != 1 {
			t.Fatalf("unexpected inventory: %+v", inv)
		}
	})

	t.Run("CompareAndUpdateInventory rejects stale version", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, domain.Inventory{
			EventID: "meetup-2025", Name: "Meet-up", TotalSeats: 500, AvailableSeats: 497, Version: 1,
		})

		if _, err := store.CompareAndUpdateInventory(ctx, "meetup-2025", 0, -3); err != domain.ErrVersionConflict {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}

		inv, err := store.GetInventory(ctx, "meetup-2025")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inv.AvailableSeats != 497 || inv.Version != 1 {
			t.Fatalf("expected inventory untouched, got %+v", inv)
		}
	})

	t.Run("CompareAndUpdateInventory rejects out-of-range result", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, domain.Inventory{
			EventID: "meetup-2025", Name: "Meet-up", TotalSeats: 10, AvailableSeats: 4, Version: 2,
		})

		if _, err := store.CompareAndUpdateInventory(ctx, "meetup-2025", 2, -5); err != domain.ErrVersionConflict {
			t.Fatalf("expected ErrVersionConflict for overdraw, got %v", err)
		}
		if _, err := store.CompareAndUpdateInventory(ctx, "meetup-2025", 2, 7); err != domain.ErrVersionConflict {
			t.Fatalf("expected ErrVersionConflict for overfill, got %v", err)
		}
	})

	t.Run("CreateInventory reports duplicates", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		inv := domain.Inventory{EventID: "meetup-2025", Name: "Meet-up", TotalSeats: 500, AvailableSeats: 500}
		if err := store.CreateInventory(ctx, inv); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := store.CreateInventory(ctx, inv); err != domain.ErrEventExists {
			t.Fatalf("expected ErrEventExists, got %v", err)
		}
	})

	t.Run("ListInventories returns all pools", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, domain.Inventory{EventID: "a", Name: "A", TotalSeats: 10, AvailableSeats: 10})
		testutil.InsertInventory(t, ctx, pool, domain.Inventory{EventID: "b", Name: "B", TotalSeats: 20, AvailableSeats: 15, Version: 3})

		out, err := store.ListInventories(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("expected 2 inventories, got %d", len(out))
		}
	})
}

func TestStoreReservations(t *testing.T) {
	pool := testutil.NewTestPool(t)
	store := NewStore(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	seedInventory := domain.Inventory{EventID: "meetup-2025", Name: "Meet-up", TotalSeats: 500, AvailableSeats: 497, Version: 1}

	newReservation := func(id string) domain.Reservation {
		return domain.Reservation{
			ReservationID: id,
			EventID:       "meetup-2025",
			PartnerID:     "acme",
			Seats:         3,
			Status:        domain.ReservationStatusConfirmed,
			CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("CreateReservation and GetReservation round trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, seedInventory)

		want := newReservation("res-1")
		if err := store.CreateReservation(ctx, want); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := store.GetReservation(ctx, "res-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.PartnerID != "acme" || got.Seats != 3 || got.Status != domain.ReservationStatusConfirmed {
			t.Fatalf("unexpected reservation: %+v", got)
		}

		if err := store.CreateReservation(ctx, want); err != domain.ErrDuplicateReservation {
			t.Fatalf("expected ErrDuplicateReservation, got %v", err)
		}

		if _, err := store.GetReservation(ctx, "missing"); err != domain.ErrReservationNotFound {
			t.Fatalf("expected ErrReservationNotFound, got %v", err)
		}
	})

	t.Run("UpdateReservationStatus flips once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, seedInventory)
		testutil.InsertReservation(t, ctx, pool, newReservation("res-1"))

		err := store.UpdateReservationStatus(ctx, "res-1", domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		err = store.UpdateReservationStatus(ctx, "res-1", domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled)
		if err != domain.ErrAlreadyCancelled {
			t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
		}

		err = store.UpdateReservationStatus(ctx, "missing", domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled)
		if err != domain.ErrReservationNotFound {
			t.Fatalf("expected ErrReservationNotFound, got %v", err)
		}
	})

	t.Run("CountConfirmedReservations counts only confirmed", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertInventory(t, ctx, pool, seedInventory)

		first := newReservation("res-1")
		testutil.InsertReservation(t, ctx, pool, first)
		second := newReservation("res-2")
		second.Status = domain.ReservationStatusCancelled
		testutil.InsertReservation(t, ctx, pool, second)

		count, err := store.CountConfirmedReservations(ctx, "meetup-2025")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 confirmed reservation, got %d", count)
		}
	})
}
