package account

import (
	"context"
	"database/sql"
	"time"

	"dispatchsite/internal/adapters/storage"
	domain "dispatchsite/internal/domain/account"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves an Account by its unique username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at, failed_logins, locked_until
		 FROM account WHERE username = ?`, username)

	var a domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &createdAt, &a.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if lockedUntil.Valid {
		a.LockedUntil, _ = time.Parse(timeLayout, lockedUntil.String)
	}
	return a, nil
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, username, password_hash, role, created_at, failed_logins, locked_until)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username=excluded.username, password_hash=excluded.password_hash,
		   role=excluded.role, created_at=excluded.created_at,
		   failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, a.Username, a.PasswordHash, a.Role, a.CreatedAt.Format(timeLayout),
		a.FailedLogins, nullTime(a.LockedUntil))
	return err
}

// Count returns the number of stored accounts.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&count)
	return count, err
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
