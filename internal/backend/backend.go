// Package backend defines the persistence contract behind a session's ledger
// and catalog, with an ephemeral and a Postgres implementation.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/ledger"
)

// ErrPersistence wraps every failure of the backing store.
var ErrPersistence = errors.New("persistence failure")

func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// ProviderState is the persisted linkage and usage of one provider.
type ProviderState struct {
	ProviderID string
	IsLinked   bool
	QuotaBytes int64
	UsedBytes  int64
}

// Profile is the persisted identity of a user.
type Profile struct {
	UserID      string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl"`
}

// Backend stores ledger and catalog state per user.
type Backend interface {
	LoadProviders(ctx context.Context, userID string) ([]ProviderState, error)
	LoadCategories(ctx context.Context, userID string) ([]catalog.Category, error)
	SaveProviderLink(ctx context.Context, userID string, p ledger.Provider) error
	SaveFileRecord(ctx context.Context, userID string, rec catalog.FileRecord, categoryName string) error
	DeleteFileRecord(ctx context.Context, userID, fileID string) error
	// SaveProfile upserts the profile and returns the stored row. An empty
	// AvatarURL keeps the stored one.
	SaveProfile(ctx context.Context, p Profile) (Profile, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
}

// Ephemeral keeps nothing. Loads return no rows, so a session starts from the
// registry seed, and saves always succeed.
type Ephemeral struct{}

var _ Backend = Ephemeral{}

func (Ephemeral) LoadProviders(context.Context, string) ([]ProviderState, error) {
	return nil, nil
}

func (Ephemeral) LoadCategories(context.Context, string) ([]catalog.Category, error) {
	return nil, nil
}

func (Ephemeral) SaveProviderLink(context.Context, string, ledger.Provider) error {
	return nil
}

func (Ephemeral) SaveFileRecord(context.Context, string, catalog.FileRecord, string) error {
	return nil
}

func (Ephemeral) DeleteFileRecord(context.Context, string, string) error {
	return nil
}

func (Ephemeral) SaveProfile(_ context.Context, p Profile) (Profile, error) {
	return p, nil
}

func (Ephemeral) UpdateAvatar(context.Context, string, string) error {
	return nil
}
