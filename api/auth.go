/*
auth.go - Login, sessions, and capability enforcement

PURPOSE:
  Name+password login against bcrypt hashes, UUID session tokens with a
  TTL, and the middleware that resolves "Authorization: Bearer <token>"
  into an access.Session on the request context.

FLOW:
  POST /api/login     verify password, mint token, store session
  (middleware)        token -> session, expired sessions are pruned lazily
  POST /api/logout    delete the session row
  POST /api/password  verify old password, store new hash

Capability checks happen per-handler via requireAction; the middleware
only authenticates.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/zohmingaRalte/muhcs-billtrack/access"
)

type sessionKey struct{}

// sessionFrom pulls the authenticated session off the request context.
// Only reachable inside RequireSession, so the ok=false path means a
// route was wired outside the protected group by mistake.
func sessionFrom(ctx context.Context) (access.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(access.Session)
	return s, ok
}

// RequireSession authenticates every request in the group via the
// Bearer token. 401 on missing, unknown, or expired tokens.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		sess, err := h.Store.GetSession(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve session", err)
			return
		}
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "Invalid session token", nil)
			return
		}
		if sess.Expired(h.now()) {
			_ = h.Store.DeleteSession(r.Context(), token)
			writeError(w, http.StatusUnauthorized, "Session expired", nil)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, *sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// requireAction checks the session's capability, writing a 403 and
// returning false when denied.
func (h *Handler) requireAction(w http.ResponseWriter, r *http.Request, action access.Action) (access.Session, bool) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return access.Session{}, false
	}
	if !access.CanPerform(sess.Role, action) {
		writeError(w, http.StatusForbidden, "Not permitted", nil)
		return access.Session{}, false
	}
	return sess, true
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login verifies credentials and mints a session token.
// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Store.GetUserByName(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up user", err)
		return
	}
	// Same response for unknown user and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid name or password", nil)
		return
	}

	token := uuid.NewString()
	expiresAt := h.now().Add(h.SessionTTL)
	if err := h.Store.CreateSession(r.Context(), token, user.ID, expiresAt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	// Opportunistic cleanup; login is rare enough to carry it.
	_, _ = h.Store.DeleteExpiredSessions(r.Context(), h.now())

	h.Log.Info().Str("user", user.Name).Str("role", string(user.Role)).Msg("login")

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  UserDTO{ID: user.ID, Name: user.Name, Role: string(user.Role)},
	})
}

// Logout deletes the current session.
// POST /api/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	if err := h.Store.DeleteSession(r.Context(), sess.Token); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ChangePassword verifies the old password and stores a new hash.
// POST /api/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAction(w, r, access.ActionChangePassword)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "New password must be at least 6 characters", nil)
		return
	}

	user, err := h.Store.GetUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		writeError(w, http.StatusUnauthorized, "Old password is incorrect", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), user.ID, string(hash)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// now returns the handler clock, defaulting to wall time. Tests pin it.
func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
