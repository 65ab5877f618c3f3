package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/identity"
	"github.com/cloudvault/service/internal/middleware"
	"github.com/cloudvault/service/internal/session"
	"github.com/cloudvault/service/internal/storage"
)

type fakeStorage struct {
	objects map[string][]byte
	failPut bool
}

func (f *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.failPut {
		return errors.New("bucket offline")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = b
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "http://cdn.test/avatars/" + key
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T, store storage.Storage) http.Handler {
	t.Helper()
	sessions := session.NewStore(identity.Demo{}, backend.Ephemeral{}, session.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, nil)

	h := NewHandler(sessions, store, zap.NewNop())
	h.now = func() time.Time { return time.Unix(0, 7) }

	r := chi.NewRouter()
	r.Post("/auth/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Post("/auth/logout", h.Logout)
		r.Get("/me", h.GetMe)
		r.Post("/me/avatar", h.UploadAvatar)
	})
	return r
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func login(t *testing.T, r http.Handler, body string) (string, session.Session) {
	t.Helper()
	rec, env := serve(r, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	var data loginData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.Session
}

func authed(method, path, token string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func avatarForm(t *testing.T, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestLogin_DemoAndHint(t *testing.T) {
	r := newRouter(t, nil)

	_, sess := login(t, r, "")
	assert.Equal(t, "Demo User", sess.DisplayName)
	assert.True(t, sess.IsAuthenticated)

	_, sess = login(t, r, `{"name":"Ada","email":"ada@example.com"}`)
	assert.Equal(t, "Ada", sess.DisplayName)
	assert.Equal(t, "ada@example.com", sess.Email)
}

func TestLogin_Rejected(t *testing.T) {
	r := newRouter(t, nil)

	rec, _ := serve(r, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(r, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMeAndLogout(t *testing.T) {
	r := newRouter(t, nil)
	token, sess := login(t, r, "")

	rec, env := serve(r, authed(http.MethodGet, "/me", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var me session.Session
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, sess.UserID, me.UserID)

	rec, _ = serve(r, authed(http.MethodPost, "/auth/logout", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(r, authed(http.MethodGet, "/me", token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(r, authed(http.MethodPost, "/auth/logout", token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadAvatar(t *testing.T) {
	store := &fakeStorage{}
	r := newRouter(t, store)
	token, sess := login(t, r, "")

	body, ct := avatarForm(t, "image/png", []byte("\x89PNG fake"))
	req := authed(http.MethodPost, "/me/avatar", token, body)
	req.Header.Set("Content-Type", ct)
	rec, env := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	var updated session.Session
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	key := sess.UserID + "/avatar-7.png"
	assert.Equal(t, "http://cdn.test/avatars/"+key, updated.AvatarURL)
	assert.Equal(t, []byte("\x89PNG fake"), store.objects[key])
}

func TestUploadAvatar_Rejections(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		r := newRouter(t, nil)
		token, _ := login(t, r, "")
		body, ct := avatarForm(t, "image/png", []byte("x"))
		req := authed(http.MethodPost, "/me/avatar", token, body)
		req.Header.Set("Content-Type", ct)
		rec, _ := serve(r, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		store := &fakeStorage{}
		r := newRouter(t, store)
		token, _ := login(t, r, "")
		body, ct := avatarForm(t, "application/pdf", []byte("%PDF"))
		req := authed(http.MethodPost, "/me/avatar", token, body)
		req.Header.Set("Content-Type", ct)
		rec, _ := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.objects)
	})

	t.Run("too large", func(t *testing.T) {
		r := newRouter(t, &fakeStorage{})
		token, _ := login(t, r, "")
		body, ct := avatarForm(t, "image/png", bytes.Repeat([]byte("a"), maxAvatarBytes+2048))
		req := authed(http.MethodPost, "/me/avatar", token, body)
		req.Header.Set("Content-Type", ct)
		rec, _ := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store offline", func(t *testing.T) {
		r := newRouter(t, &fakeStorage{failPut: true})
		token, _ := login(t, r, "")
		body, ct := avatarForm(t, "image/png", []byte("x"))
		req := authed(http.MethodPost, "/me/avatar", token, body)
		req.Header.Set("Content-Type", ct)
		rec, _ := serve(r, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
