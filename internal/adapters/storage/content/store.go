package content

import (
	"context"

	domain "dispatchsite/internal/domain/content"
)

// Store persists the single content Document. The document is read and
// replaced wholesale; there is no partial write at the storage level.
type Store interface {
	Get(ctx context.Context) (domain.Document, error)
	Replace(ctx context.Context, doc domain.Document) error
	Exists(ctx context.Context) (bool, error)
}
