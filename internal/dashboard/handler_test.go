package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/service/internal/aggregate"
	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/identity"
	"github.com/cloudvault/service/internal/ledger"
	"github.com/cloudvault/service/internal/middleware"
	"github.com/cloudvault/service/internal/registry"
	"github.com/cloudvault/service/internal/session"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := session.NewStore(identity.Demo{}, backend.Ephemeral{}, session.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, nil)
	_, token, err := store.Login(context.Background(), identity.Hint{})
	require.NoError(t, err)

	h := NewHandler(store)
	r := chi.NewRouter()
	r.Get("/providers/catalog", h.Catalog)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(store))
		h.Register(r)
	})
	return &testServer{t: t, router: r, token: token}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCatalog_Public(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(http.MethodGet, "/providers/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[[]registry.Provider](t, rec)
	require.Len(t, env.Data, 5)
	assert.Equal(t, "google-drive", env.Data[0].ID)
}

func TestRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/providers", nil).Code)
}

func TestLinkUploadAndStats(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/providers/dropbox/link", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ledger.Provider](t, rec).Data.IsLinked)

	rec = s.do(http.MethodPost, "/categories/Holiday%20Photos/files", uploadRequest{
		Name: "beach.jpg", Size: 1 << 20, MimeType: "image/jpeg",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decode[catalog.FileRecord](t, rec).Data
	assert.Equal(t, "dropbox", file.ProviderID)
	assert.Equal(t, "holiday-photos", file.CategoryID)

	rec = s.do(http.MethodGet, "/categories/holiday-photos/files", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]catalog.FileRecord](t, rec).Data, 1)

	rec = s.do(http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[aggregate.Summary](t, rec).Data
	assert.Equal(t, 2*registry.GiB, sum.TotalBytes)
	assert.Equal(t, int64(1<<20), sum.UsedBytes)

	rec = s.do(http.MethodDelete, "/categories/holiday-photos/files/"+file.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/stats", nil)
	assert.Zero(t, decode[aggregate.Summary](t, rec).Data.UsedBytes)
}

func TestUnlink_ProducesOrphans(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/providers/mega/link", nil).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/categories/work/files", uploadRequest{
		Name: "plan.txt", Size: 10,
	}).Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/providers/mega/link", nil).Code)

	rec := s.do(http.MethodGet, "/stats/orphans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orphans := decode[[]catalog.FileRecord](t, rec).Data
	require.Len(t, orphans, 1)
	assert.Equal(t, "plan.txt", orphans[0].Name)

	rec = s.do(http.MethodGet, "/categories/work/files", nil)
	assert.Len(t, decode[[]catalog.FileRecord](t, rec).Data, 1)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown provider", http.MethodPost, "/providers/icloud/link", nil, http.StatusNotFound},
		{"no linked provider", http.MethodPost, "/categories/work/files", uploadRequest{Name: "a", Size: 1}, http.StatusConflict},
		{"unknown category", http.MethodGet, "/categories/nope/files", nil, http.StatusNotFound},
		{"unknown file", http.MethodDelete, "/categories/work/files/missing", nil, http.StatusNotFound},
		{"bad strategy", http.MethodPost, "/categories/work/files", uploadRequest{Name: "a", Size: 1, Strategy: "random"}, http.StatusBadRequest},
		{"not linked", http.MethodPost, "/categories/work/files", uploadRequest{Name: "a", Size: 1, ProviderID: "dropbox"}, http.StatusConflict},
		{"caller without provider", http.MethodPost, "/categories/work/files", uploadRequest{Name: "a", Size: 1, Strategy: "caller"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			env := decode[any](t, rec)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestUpload_QuotaAndValidation(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/providers/dropbox/link", nil).Code)

	rec := s.do(http.MethodPost, "/categories/videos/files", uploadRequest{
		Name: "movie.mkv", Size: 3 * registry.GiB, ProviderID: "dropbox",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/categories/videos/files", uploadRequest{Name: "neg", Size: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/categories/videos/files", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+s.token)
	raw := httptest.NewRecorder()
	s.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	rec = s.do(http.MethodGet, "/providers", nil)
	for _, p := range decode[[]ledger.Provider](t, rec).Data {
		assert.Zero(t, p.UsedBytes, p.ID)
	}
}

func TestUpload_HugeSizeKeepsUsageWithinQuota(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/providers/dropbox/link", nil).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/categories/work/files", uploadRequest{
		Name: "a.txt", Size: 1, ProviderID: "dropbox",
	}).Code)

	rec := s.do(http.MethodPost, "/categories/work/files", uploadRequest{
		Name: "huge.bin", Size: math.MaxInt64, ProviderID: "dropbox",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/stats", nil)
	sum := decode[aggregate.Summary](t, rec).Data
	assert.Equal(t, int64(1), sum.UsedBytes)
	assert.Equal(t, 2*registry.GiB-1, sum.AvailableBytes)
}
