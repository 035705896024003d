package upload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Destination categories for ingested files.
const (
	CategoryContactAttachment = "contact_attachment"
	CategoryLeaderboardPhoto  = "leaderboard_photo"
)

// Domain errors
var (
	ErrNoFile           = errors.New("no file provided")
	ErrUnsupportedMedia = errors.New("file must be an image (png, jpeg, gif)")
	ErrProcessingFailed = errors.New("could not process image")
)

// allowedRune reports whether r may appear in a stored filename.
// Allow-list per the sanitizer contract: alphanumerics, dot, hyphen, underscore.
func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-' || r == '_':
		return true
	}
	return false
}

// SanitizeFilename reduces an arbitrary client-supplied filename to the
// allow-listed character set. Runs of disallowed characters collapse to a
// single underscore, dot runs collapse to a single dot, and leading dots and
// underscores are trimmed so the result can never carry a path separator or
// a traversal sequence. An empty result falls back to "file".
func SanitizeFilename(name string) string {
	var b strings.Builder
	pendingGap := false
	for _, r := range name {
		if allowedRune(r) {
			if pendingGap {
				b.WriteByte('_')
				pendingGap = false
			}
			b.WriteRune(r)
		} else {
			pendingGap = true
		}
	}

	s := b.String()
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", ".")
	}
	s = strings.TrimLeft(s, "._")
	if s == "" {
		return "file"
	}
	return s
}

// NameToken returns a short random token used to keep derived names unique
// under same-millisecond concurrent uploads.
func NameToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// DeriveStoredName builds the on-disk filename for an upload:
// <unix-millis>_<token>_<sanitized original>.
// PRE: token is non-empty and allow-list clean (see NameToken)
// POST: result contains no path separator
func DeriveStoredName(originalName, token string, now time.Time) string {
	return fmt.Sprintf("%d_%s_%s", now.UnixMilli(), token, SanitizeFilename(originalName))
}
