// Package account serves sign-in, sign-out and the signed-in user's profile.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cloudvault/service/internal/identity"
	"github.com/cloudvault/service/internal/middleware"
	"github.com/cloudvault/service/internal/response"
	"github.com/cloudvault/service/internal/session"
	"github.com/cloudvault/service/internal/storage"
	"github.com/cloudvault/service/internal/workspace"
)

const (
	maxAvatarBytes = 5 << 20
	maxLoginBytes  = 16 << 10
)

// Sessions is the subset of session.Store used by the handlers.
type Sessions interface {
	Login(ctx context.Context, hint identity.Hint) (session.Session, string, error)
	Logout(ctx context.Context, userID string) error
	Get(userID string) (session.Session, *workspace.Workspace, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (session.Session, error)
}

// Handler holds HTTP handlers for account endpoints.
type Handler struct {
	sessions Sessions
	store    storage.Storage
	log      *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new account Handler. store may be nil, in which case
// avatar uploads are rejected.
func NewHandler(sessions Sessions, store storage.Storage, log *zap.Logger) *Handler {
	return &Handler{sessions: sessions, store: store, log: log, now: time.Now}
}

type loginRequest struct {
	Name  string `json:"name,omitempty"  example:"Ada Lovelace"`
	Email string `json:"email,omitempty" example:"ada@example.com"`
}

type loginData struct {
	Token   string          `json:"token"   example:"eyJhbGci..."`
	Session session.Session `json:"session"`
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Signs in through the identity provider, restores the user's providers and files and returns a JWT. An empty body signs in as the demo user.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	false	"Optional name and email"
//	@Success		200		{object}	response.Envelope{data=loginData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}

	sess, token, err := h.sessions.Login(r.Context(), identity.Hint{Name: req.Name, Email: req.Email})
	if err != nil {
		h.log.Warn("login failed", zap.Error(err))
		response.FromError(w, err)
		return
	}
	response.OK(w, loginData{Token: token, Session: sess})
}

// Logout godoc
//
//	@Summary		Sign out
//	@Description	Ends the session and discards the in-memory workspace. Persisted data is kept.
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Router			/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	if err := h.sessions.Logout(r.Context(), userID); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, nil)
}

// GetMe godoc
//
//	@Summary		Get current user
//	@Description	Returns the session of the currently authenticated user.
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=session.Session}
//	@Failure		401	{object}	response.Envelope
//	@Router			/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	sess, _, err := h.sessions.Get(userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, sess)
}

// UploadAvatar godoc
//
//	@Summary		Upload avatar
//	@Description	Stores a profile image (jpeg, png, gif or webp, at most 5 MiB) and updates the session's avatar URL.
//	@Tags			users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			avatar	formData	file	true	"Image file"
//	@Success		200		{object}	response.Envelope{data=session.Session}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/me/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	if h.store == nil {
		response.ServiceUnavailable(w, "avatar storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+(1<<10))
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		response.BadRequest(w, "avatar must be a multipart upload of at most 5 MiB")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "missing avatar file")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		response.BadRequest(w, "avatar must be at most 5 MiB")
		return
	}
	contentType := header.Header.Get("Content-Type")
	key, err := storage.AvatarKey(userID, contentType, h.now())
	if err != nil {
		response.BadRequest(w, "avatar must be a jpeg, png, gif or webp image")
		return
	}

	if err := h.store.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		h.log.Error("avatar upload failed", zap.String("user_id", userID), zap.Error(err))
		response.ServiceUnavailable(w, "avatar storage unavailable")
		return
	}

	sess, err := h.sessions.UpdateAvatar(r.Context(), userID, h.store.PublicURL(key))
	if err != nil {
		if delErr := h.store.Delete(r.Context(), key); delErr != nil {
			h.log.Warn("orphaned avatar object", zap.String("key", key), zap.Error(delErr))
		}
		response.FromError(w, err)
		return
	}
	response.OK(w, sess)
}
