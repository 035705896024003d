package message_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dispatchsite/internal/adapters/storage"
	messageStore "dispatchsite/internal/adapters/storage/message"
	domain "dispatchsite/internal/domain/message"
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

// TestSQLiteStore_ListOrdering verifies messages come back newest first.
func TestSQLiteStore_ListOrdering(t *testing.T) {
	db := openMigratedDB(t)
	store := messageStore.NewSQLiteStore(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		m := domain.Message{
			ID:        id,
			FullName:  "Driver " + id,
			Message:   "hello",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Append(ctx, m); err != nil {
			t.Fatalf("Append(%s) failed: %v", id, err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"m3", "m2", "m1"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %s, want %s", i, got[i].ID, want)
		}
	}
}

// TestSQLiteStore_AppendOnly verifies a duplicate ID is an error, not an update.
func TestSQLiteStore_AppendOnly(t *testing.T) {
	db := openMigratedDB(t)
	store := messageStore.NewSQLiteStore(db)
	ctx := context.Background()

	m := domain.Message{ID: "m1", Message: "first", CreatedAt: time.Now()}
	if err := store.Append(ctx, m); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	m.Message = "second"
	if err := store.Append(ctx, m); err == nil {
		t.Error("appending a duplicate ID should fail")
	}
}

// TestSQLiteStore_AttachmentRoundTrip verifies the optional attachment column.
func TestSQLiteStore_AttachmentRoundTrip(t *testing.T) {
	db := openMigratedDB(t)
	store := messageStore.NewSQLiteStore(db)
	ctx := context.Background()

	withFile := domain.Message{ID: "a", Message: "has cv", Attachment: "/uploads/cv.pdf", CreatedAt: time.Now()}
	withoutFile := domain.Message{ID: "b", Message: "no cv", CreatedAt: time.Now().Add(time.Second)}
	for _, m := range []domain.Message{withFile, withoutFile} {
		if err := store.Append(ctx, m); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, m := range got {
		switch m.ID {
		case "a":
			if m.Attachment != "/uploads/cv.pdf" {
				t.Errorf("attachment = %q", m.Attachment)
			}
		case "b":
			if m.Attachment != "" {
				t.Errorf("attachment should be empty, got %q", m.Attachment)
			}
		}
	}
}
