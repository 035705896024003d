package message

import (
	"errors"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxMessageLength = 4000
)

// Domain errors
var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message cannot exceed 4000 characters")
)

// Message is one contact-form submission. Append-only: there is no update or
// delete; display order is CreatedAt descending.
type Message struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	Attachment string    `json:"attachment,omitempty"` // relative path under the upload root
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if m.Message == "" {
		return ErrEmptyMessage
	}
	if len(m.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
