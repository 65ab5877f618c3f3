package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/ledger"
	"github.com/cloudvault/service/internal/session"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("select: %w", ledger.ErrUnknownProvider), http.StatusNotFound},
		{catalog.ErrNotFound, http.StatusNotFound},
		{ledger.ErrQuotaExceeded, http.StatusConflict},
		{ledger.ErrProviderNotLinked, http.StatusConflict},
		{ledger.ErrNoLinkedProvider, http.StatusConflict},
		{catalog.ErrInvalidFile, http.StatusBadRequest},
		{ledger.ErrInvalidSize, http.StatusBadRequest},
		{fmt.Errorf("select provider: %w", ledger.ErrProviderRequired), http.StatusBadRequest},
		{session.ErrNoSession, http.StatusUnauthorized},
		{session.ErrAuth, http.StatusUnauthorized},
		{fmt.Errorf("insert: %w", backend.ErrPersistence), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

func TestFromError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, fmt.Errorf("debit: %w", ledger.ErrQuotaExceeded))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "quota exceeded")
}

func TestFromError_HidesInternalText(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, errors.New("pq: connection refused at 10.0.0.3"))

	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, "internal server error", env.Error)
}
