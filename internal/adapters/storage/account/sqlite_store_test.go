package account_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dispatchsite/internal/adapters/storage"
	accountStore "dispatchsite/internal/adapters/storage/account"
	domain "dispatchsite/internal/domain/account"
)

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	return db
}

// TestSQLiteStore_SaveAndGet verifies the save/get round trip by username.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	db := openMigratedDB(t)
	store := accountStore.NewSQLiteStore(db)
	ctx := context.Background()

	a := domain.Account{
		ID:           "id-1",
		Username:     "admin",
		PasswordHash: "$2a$12$fakehash",
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != a.ID || got.Role != a.Role || got.PasswordHash != a.PasswordHash {
		t.Errorf("got %+v, want %+v", got, a)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, a.CreatedAt)
	}

	if _, err := store.GetByUsername(ctx, "nobody"); err == nil {
		t.Error("unknown username should fail closed")
	}
}

// TestSQLiteStore_SaveUpdatesLockout verifies failed-login state persists.
func TestSQLiteStore_SaveUpdatesLockout(t *testing.T) {
	db := openMigratedDB(t)
	store := accountStore.NewSQLiteStore(db)
	ctx := context.Background()

	a := domain.Account{ID: "id-1", Username: "admin", Role: domain.RoleAdmin, CreatedAt: time.Now()}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	a.FailedLogins = 5
	a.LockedUntil = time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.FailedLogins != 5 {
		t.Errorf("failed_logins = %d, want 5", got.FailedLogins)
	}
	if !got.LockedUntil.Equal(a.LockedUntil) {
		t.Errorf("locked_until = %v, want %v", got.LockedUntil, a.LockedUntil)
	}
}

// TestSQLiteStore_Count verifies the seeding guard.
func TestSQLiteStore_Count(t *testing.T) {
	db := openMigratedDB(t)
	store := accountStore.NewSQLiteStore(db)
	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	for _, u := range []string{"admin", "user"} {
		a := domain.Account{ID: "id-" + u, Username: u, Role: domain.RoleLimited, CreatedAt: time.Now()}
		if err := store.Save(ctx, a); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
