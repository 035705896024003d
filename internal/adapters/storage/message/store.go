package message

import (
	"context"

	domain "dispatchsite/internal/domain/message"
)

// Store persists the append-only contact message log.
type Store interface {
	Append(ctx context.Context, value domain.Message) error
	List(ctx context.Context) ([]domain.Message, error)
}
