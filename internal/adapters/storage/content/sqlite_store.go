package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dispatchsite/internal/adapters/storage"
	domain "dispatchsite/internal/domain/content"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// documentRowID is the fixed primary key of the single document row. The
// table has a CHECK constraint pinning it, so the store can never grow a
// second document.
const documentRowID = 1

// SQLiteStore implements Store using SQLite, holding the document as a JSON
// body in a single row. Replace is one UPSERT, so a write can never be
// observed half-applied.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the content Document.
// POST: Returns the document, or ErrCorruptDocument if the row is missing
// or its body does not decode — boot seeding is responsible for ensuring a
// valid document exists, so either condition is corrupt state, never an
// excuse to fall back to an empty document.
func (s *SQLiteStore) Get(ctx context.Context) (domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT body FROM content_document WHERE id = ?`, documentRowID)

	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return domain.Document{}, domain.ErrCorruptDocument
		}
		return domain.Document{}, fmt.Errorf("load content document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}
	return doc, nil
}

// Replace overwrites the stored document wholesale.
// PRE: doc passes Validate
// POST: The single row holds doc's JSON encoding
func (s *SQLiteStore) Replace(ctx context.Context, doc domain.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode content document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO content_document (id, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body=excluded.body, updated_at=excluded.updated_at`,
		documentRowID, string(body), doc.UpdatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("replace content document: %w", err)
	}
	return nil
}

// Exists reports whether a document row is present (used by boot seeding).
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_document WHERE id = ?`, documentRowID).Scan(&count)
	return count > 0, err
}
