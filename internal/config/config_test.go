package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/service/internal/ledger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("VAULT_STORAGE_MODE", "")
	t.Setenv("STORAGE_ENDPOINT", "")
	for _, k := range []string{"PORT", "TOKEN_TTL", "VAULT_QUOTA_POLICY", "VAULT_UPLOAD_STRATEGY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ModeEphemeral, cfg.StorageMode)
	assert.False(t, cfg.IsPersisted())
	assert.Equal(t, ledger.PolicyReject, cfg.QuotaPolicy)
	assert.Equal(t, ledger.StrategyMostAvailable, cfg.UploadStrategy)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.AvatarsEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VAULT_STORAGE_MODE", "persisted")
	t.Setenv("VAULT_QUOTA_POLICY", "overflow")
	t.Setenv("VAULT_UPLOAD_STRATEGY", "caller")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("STORAGE_ENDPOINT", "minio:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsPersisted())
	assert.Equal(t, ledger.PolicyOverflow, cfg.QuotaPolicy)
	assert.Equal(t, ledger.StrategyCaller, cfg.UploadStrategy)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.AvatarsEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"mode":     {"VAULT_STORAGE_MODE", "disk"},
		"policy":   {"VAULT_QUOTA_POLICY", "clamp"},
		"strategy": {"VAULT_UPLOAD_STRATEGY", "random"},
		"ttl":      {"TOKEN_TTL", "soon"},
		"neg ttl":  {"TOKEN_TTL", "-1h"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
