package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dispatchsite/internal/adapters/http/middleware"
	"dispatchsite/internal/application/orchestrators"
	contentDomain "dispatchsite/internal/domain/content"
	messageDomain "dispatchsite/internal/domain/message"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a {ok:false, error} body with the given status.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// requireSession extracts the session or writes a 401. Every privileged
// endpoint fails with an authorization error, never a generic one.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return middleware.Session{}, false
	}
	return sess, true
}

// handleLogin handles POST /api/admin/login.
// Bad credentials answer {ok:false} without distinguishing unknown username
// from wrong password, and without creating a session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	deps := orchestrators.LoginDeps{AccountStore: stores.AccountStore}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			respondError(w, http.StatusForbidden, "account is temporarily locked")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"ok": false})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Username, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "role": result.Role})
}

// handleLogout handles POST /api/admin/logout. Destroys the session unconditionally.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleMe handles GET /api/admin/me.
func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"user": map[string]any{
			"username": sess.Username,
			"role":     sess.Role,
		},
	})
}

// handlePublicContent handles GET /api/content (unauthenticated public read).
func handlePublicContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	doc, err := stores.ContentStore.Get(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// handleAdminContent handles GET and PUT /api/admin/content.
// PUT applies the role-scoped merge policy: admin replaces any supplied
// section, limited may only replace tops.
func handleAdminContent(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		doc, err := stores.ContentStore.Get(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, doc)

	case "PUT":
		var update contentDomain.Update
		if err := strictDecode(r, &update); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		input := orchestrators.UpdateContentInput{Update: update, Role: sess.Role}
		deps := orchestrators.UpdateContentDeps{ContentStore: stores.ContentStore}
		doc, err := orchestrators.ExecuteUpdateContent(r.Context(), input, deps)
		if err != nil {
			if errors.Is(err, contentDomain.ErrInvalidTops) {
				respondError(w, http.StatusBadRequest, contentDomain.ErrInvalidTops.Error())
				return
			}
			internalError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "content": doc})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMessages handles GET /api/admin/messages, newest first.
func handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}
	msgs, err := stores.MessageStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if msgs == nil {
		msgs = []messageDomain.Message{}
	}
	respondJSON(w, http.StatusOK, msgs)
}

// handlePerf handles GET /api/admin/perf (admin only): aggregated request
// and query timings over the last hour.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		respondError(w, http.StatusForbidden, "admin only")
		return
	}
	snap := perfCollector.Snapshot(time.Now().Add(-time.Hour), 10)
	respondJSON(w, http.StatusOK, snap)
}
