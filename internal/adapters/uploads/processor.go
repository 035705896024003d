package uploads

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"dispatchsite/internal/domain/content"
	"dispatchsite/internal/domain/upload"
)

// Leaderboard photos are normalized to a fixed canvas and format so storage
// size and display aspect are predictable regardless of input dimensions.
const (
	PhotoWidth       = 1200
	PhotoHeight      = 800
	PhotoJPEGQuality = 82
)

// URLPrefix is the public path uploads are served under.
const URLPrefix = "/uploads/"

// Processor writes ingested files under a public upload root.
type Processor struct {
	root string
}

// NewProcessor creates a Processor rooted at dir, creating it if absent.
// PRE: dir is a writable location
// POST: dir exists; returned Processor stores files under it
func NewProcessor(dir string) (*Processor, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Processor{root: dir}, nil
}

// Root returns the upload root directory (used for static serving).
func (p *Processor) Root() string {
	return p.root
}

// StoreAttachment stores a contact attachment as-is under a derived,
// collision-resistant name. No format constraint applies to attachments.
// PRE: src is the raw uploaded file
// POST: file exists under the root; returns its public relative path
func (p *Processor) StoreAttachment(originalName string, src io.Reader) (string, error) {
	name := upload.DeriveStoredName(originalName, upload.NameToken(), time.Now())
	fullPath := filepath.Join(p.root, name)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, src); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return URLPrefix + name, nil
}

// ReadStored returns the bytes of a previously stored file given its public
// relative path (used to attach the original file to notification emails).
func (p *Processor) ReadStored(relPath string) ([]byte, error) {
	name := filepath.Base(relPath)
	return os.ReadFile(filepath.Join(p.root, name))
}

// IngestLeaderboardPhoto validates, resizes, and re-encodes a leaderboard
// photo for the given tops slot. The raw upload is spooled to a temporary
// file which is always removed, success or not; the output file is only
// created after decoding succeeds.
// PRE: src is the raw uploaded file
// POST: on success a 1200x800 JPEG exists under the root and its public
// relative path is returned; on failure no new file remains
func (p *Processor) IngestLeaderboardPhoto(originalName string, src io.Reader, index int) (string, error) {
	if err := content.ValidateTopIndex(index); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(p.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp upload: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("upload_temp_cleanup_failed", "path", tmpPath, "error", removeErr.Error())
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("spool upload: %w", err)
	}

	img, err := imaging.Open(tmpPath, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return "", upload.ErrUnsupportedMedia
		}
		return "", fmt.Errorf("%w: %v", upload.ErrProcessingFailed, err)
	}

	normalized := imaging.Fill(img, PhotoWidth, PhotoHeight, imaging.Center, imaging.Lanczos)

	name := upload.DeriveStoredName(fmt.Sprintf("tops_%d.jpg", index), upload.NameToken(), time.Now())
	outPath := filepath.Join(p.root, name)
	if err := imaging.Save(normalized, outPath, imaging.JPEGQuality(PhotoJPEGQuality)); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("%w: %v", upload.ErrProcessingFailed, err)
	}
	return URLPrefix + name, nil
}
