package orchestrators

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"dispatchsite/internal/domain/content"
)

// LeaderboardPhotoIngester defines the upload-processor interface needed by SetTopImage.
type LeaderboardPhotoIngester interface {
	IngestLeaderboardPhoto(originalName string, src io.Reader, index int) (string, error)
}

// SetTopImageInput carries input for the orchestrator.
type SetTopImageInput struct {
	Index    int
	Filename string
	File     io.Reader
}

// SetTopImageDeps holds dependencies for SetTopImage.
type SetTopImageDeps struct {
	ContentStore ContentStoreForUpdate
	Photos       LeaderboardPhotoIngester
}

// SetTopImageResult carries the stored path and the updated document.
type SetTopImageResult struct {
	Path     string
	Document content.Document
}

// ExecuteSetTopImage normalizes an uploaded leaderboard photo and points the
// addressed tops slot at it. The index is validated before any file I/O so a
// bad request never leaves an orphaned upload, and the document is only
// touched after processing succeeds.
// POST: Tops[index].Image references the stored photo; UpdatedAt refreshed
func ExecuteSetTopImage(ctx context.Context, input SetTopImageInput, deps SetTopImageDeps) (SetTopImageResult, error) {
	if err := content.ValidateTopIndex(input.Index); err != nil {
		return SetTopImageResult{}, err
	}

	rel, err := deps.Photos.IngestLeaderboardPhoto(input.Filename, input.File, input.Index)
	if err != nil {
		return SetTopImageResult{}, err
	}

	doc, err := deps.ContentStore.Get(ctx)
	if err != nil {
		return SetTopImageResult{}, fmt.Errorf("load content: %w", err)
	}
	if err := doc.SetTopImage(input.Index, rel, time.Now()); err != nil {
		return SetTopImageResult{}, err
	}
	if err := deps.ContentStore.Replace(ctx, doc); err != nil {
		return SetTopImageResult{}, fmt.Errorf("persist content: %w", err)
	}

	slog.Info("top_image_set", "index", input.Index, "path", rel)
	return SetTopImageResult{Path: rel, Document: doc}, nil
}
