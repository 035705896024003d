package message

import (
	"context"
	"database/sql"
	"time"

	"dispatchsite/internal/adapters/storage"
	domain "dispatchsite/internal/domain/message"
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

// Append persists a Message. The log is append-only: no update path exists,
// so a plain INSERT is correct and an ID collision is an error.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Append(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message (id, full_name, email, phone, message, attachment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.FullName, m.Email, m.Phone, m.Message,
		nullStr(m.Attachment), m.CreatedAt.Format(timeLayout))
	return err
}

// List retrieves all Messages, newest first.
// POST: Returns messages ordered by created_at descending
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_name, email, phone, message, attachment, created_at
		 FROM message ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var attachment sql.NullString
		var createdAt string
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Phone, &m.Message, &attachment, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		if attachment.Valid {
			m.Attachment = attachment.String
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
