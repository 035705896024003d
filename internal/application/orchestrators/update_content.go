package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatchsite/internal/domain/content"
)

// ContentStoreForUpdate defines the store interface needed by UpdateContent.
type ContentStoreForUpdate interface {
	Get(ctx context.Context) (content.Document, error)
	Replace(ctx context.Context, doc content.Document) error
}

// UpdateContentInput carries input for the update orchestrator.
type UpdateContentInput struct {
	Update content.Update
	Role   string
}

// UpdateContentDeps holds dependencies for UpdateContent.
type UpdateContentDeps struct {
	ContentStore ContentStoreForUpdate
}

// ExecuteUpdateContent applies a role-scoped partial update to the stored
// document and persists the result wholesale. Read-merge-replace is
// last-write-wins between concurrent admin sessions; acceptable for a
// single-admin editing workflow.
// POST: Stored document is the merged result with a fresh server UpdatedAt
func ExecuteUpdateContent(ctx context.Context, input UpdateContentInput, deps UpdateContentDeps) (content.Document, error) {
	existing, err := deps.ContentStore.Get(ctx)
	if err != nil {
		return content.Document{}, fmt.Errorf("load content: %w", err)
	}

	next, err := content.ApplyUpdate(existing, input.Update, input.Role, time.Now())
	if err != nil {
		return content.Document{}, err
	}

	if err := deps.ContentStore.Replace(ctx, next); err != nil {
		return content.Document{}, fmt.Errorf("persist content: %w", err)
	}

	slog.Info("content_updated", "role", input.Role)
	return next, nil
}
