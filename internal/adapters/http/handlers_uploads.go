package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dispatchsite/internal/application/orchestrators"
	contentDomain "dispatchsite/internal/domain/content"
	messageDomain "dispatchsite/internal/domain/message"
	uploadDomain "dispatchsite/internal/domain/upload"
)

// maxUpload caps multipart request bodies on both upload endpoints.
const maxUpload = 10 << 20 // 10 MB

// imageContentTypes are the accepted leaderboard photo types. The processor
// re-validates by decoding; this is a cheap early reject.
var imageContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// handleTopImage handles POST /api/admin/tops/{index}/image.
// The index is validated before the file is touched so a bad slot never
// leaves an orphaned upload.
func handleTopImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	// Path shape: /api/admin/tops/{index}/image
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/tops/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "image" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil {
		respondError(w, http.StatusBadRequest, contentDomain.ErrInvalidIndex.Error())
		return
	}
	if err := contentDomain.ValidateTopIndex(index); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respondError(w, http.StatusBadRequest, "request too large or malformed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, uploadDomain.ErrNoFile.Error())
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !imageContentTypes[ct] {
		respondError(w, http.StatusUnsupportedMediaType, uploadDomain.ErrUnsupportedMedia.Error())
		return
	}

	input := orchestrators.SetTopImageInput{
		Index:    index,
		Filename: header.Filename,
		File:     file,
	}
	deps := orchestrators.SetTopImageDeps{
		ContentStore: stores.ContentStore,
		Photos:       uploadProcessor,
	}
	result, err := orchestrators.ExecuteSetTopImage(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, contentDomain.ErrInvalidIndex):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, uploadDomain.ErrUnsupportedMedia):
			respondError(w, http.StatusUnsupportedMediaType, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "path": result.Path})
}

// handleContact handles POST /api/contact (public). Accepts multipart form
// data with fields name, email, phone, message and an optional "cv"
// attachment. The append to the message log is the source of truth; the
// owner notification is best-effort.
func handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.SubmitContactInput{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			respondError(w, http.StatusBadRequest, "request too large or malformed")
			return
		}
		if file, header, err := r.FormFile("cv"); err == nil {
			defer file.Close()
			input.Attachment = file
			input.AttachmentName = header.Filename
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid form submission")
			return
		}
	}
	input.FullName = strings.TrimSpace(r.FormValue("name"))
	input.Email = strings.TrimSpace(r.FormValue("email"))
	input.Phone = strings.TrimSpace(r.FormValue("phone"))
	input.Message = strings.TrimSpace(r.FormValue("message"))

	deps := orchestrators.SubmitContactDeps{
		MessageStore: stores.MessageStore,
		Uploads:      uploadProcessor,
		Sender:       emailSender,
		NotifyTo:     emailNotifyTo,
		From:         emailFromAddress,
		ReplyTo:      emailReplyTo,
	}
	if err := orchestrators.ExecuteSubmitContact(r.Context(), input, deps); err != nil {
		if errors.Is(err, messageDomain.ErrEmptyMessage) || errors.Is(err, messageDomain.ErrMessageTooLong) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
