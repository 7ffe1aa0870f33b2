package migrations_test

import (
	"context"
	"testing"

	"github.com/sehajmakkar/powerplay-assignment/internal/testutil"
	"github.com/sehajmakkar/powerplay-assignment/migrations"
)

func TestApply_IsIdempotent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count < 2 {
		t.Fatalf("expected at least 2 migrations recorded, got %d", count)
	}

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var again int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&again); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if again != count {
		t.Fatalf("expected migration count unchanged, got %d vs %d", again, count)
	}
}
