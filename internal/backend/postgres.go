package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/ledger"
)

// Postgres persists sessions in the cloud_connections, file_metadata and
// profiles tables.
type Postgres struct {
	db *pgxpool.Pool
}

var _ Backend = (*Postgres)(nil)

// NewPostgres creates a Postgres backend on the given pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// LoadProviders returns every connection row of the user, active or not.
func (p *Postgres) LoadProviders(ctx context.Context, userID string) ([]ProviderState, error) {
	rows, err := p.db.Query(ctx,
		`SELECT service_type, is_active, total_storage, used_storage
		 FROM cloud_connections
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, persistErr("load providers", err)
	}
	defer rows.Close()

	var out []ProviderState
	for rows.Next() {
		var s ProviderState
		if err := rows.Scan(&s.ProviderID, &s.IsLinked, &s.QuotaBytes, &s.UsedBytes); err != nil {
			return nil, persistErr("scan provider", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("load providers", err)
	}
	return out, nil
}

// LoadCategories returns the user's files grouped by category, each group in
// upload order and groups in order of their first file.
func (p *Postgres) LoadCategories(ctx context.Context, userID string) ([]catalog.Category, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, file_name, file_size, file_type, category, category_name, service_type, updated_at
		 FROM file_metadata
		 WHERE user_id = $1
		 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, persistErr("load categories", err)
	}
	defer rows.Close()

	var out []catalog.Category
	index := make(map[string]int)
	for rows.Next() {
		var (
			rec  catalog.FileRecord
			name string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SizeBytes, &rec.MimeType,
			&rec.CategoryID, &name, &rec.ProviderID, &rec.LastModified); err != nil {
			return nil, persistErr("scan file", err)
		}
		i, ok := index[rec.CategoryID]
		if !ok {
			i = len(out)
			index[rec.CategoryID] = i
			out = append(out, catalog.Category{ID: rec.CategoryID, DisplayName: name})
		}
		out[i].Files = append(out[i].Files, rec)
		out[i].TotalSizeBytes += rec.SizeBytes
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("load categories", err)
	}
	return out, nil
}

// SaveProviderLink upserts the connection's linkage and quota. Usage is
// maintained by the file operations and is only written on first insert.
func (p *Postgres) SaveProviderLink(ctx context.Context, userID string, prov ledger.Provider) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO cloud_connections (user_id, service_type, service_name, total_storage, used_storage, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, service_type) DO UPDATE
		 SET is_active = EXCLUDED.is_active,
		     total_storage = EXCLUDED.total_storage,
		     updated_at = NOW()`,
		userID, prov.ID, prov.DisplayName, prov.QuotaBytes, prov.UsedBytes, prov.IsLinked,
	)
	if err != nil {
		return persistErr("save provider link", err)
	}
	return nil
}

// SaveFileRecord inserts the file and charges its provider in one transaction.
func (p *Postgres) SaveFileRecord(ctx context.Context, userID string, rec catalog.FileRecord, categoryName string) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return persistErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	modified := rec.LastModified
	if modified.IsZero() {
		modified = time.Now().UTC()
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO file_metadata
		   (id, user_id, service_type, file_name, file_size, file_type, category, category_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		rec.ID, userID, rec.ProviderID, rec.Name, rec.SizeBytes, rec.MimeType, rec.CategoryID, categoryName, modified,
	)
	if err != nil {
		return persistErr("insert file", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE cloud_connections
		 SET used_storage = used_storage + $3, updated_at = NOW()
		 WHERE user_id = $1 AND service_type = $2`,
		userID, rec.ProviderID, rec.SizeBytes,
	)
	if err != nil {
		return persistErr("update used storage", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// DeleteFileRecord removes the file and credits its provider, floored at
// zero, in one transaction.
func (p *Postgres) DeleteFileRecord(ctx context.Context, userID, fileID string) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return persistErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var (
		size     int64
		provider string
	)
	err = tx.QueryRow(ctx,
		`DELETE FROM file_metadata
		 WHERE id = $1 AND user_id = $2
		 RETURNING file_size, service_type`,
		fileID, userID,
	).Scan(&size, &provider)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("file %q: %w", fileID, catalog.ErrNotFound)
	}
	if err != nil {
		return persistErr("delete file", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE cloud_connections
		 SET used_storage = GREATEST(used_storage - $3, 0), updated_at = NOW()
		 WHERE user_id = $1 AND service_type = $2`,
		userID, provider, size,
	)
	if err != nil {
		return persistErr("update used storage", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// SaveProfile upserts the user's profile.
func (p *Postgres) SaveProfile(ctx context.Context, prof Profile) (Profile, error) {
	out := Profile{}
	err := p.db.QueryRow(ctx,
		`INSERT INTO profiles (id, email, full_name, avatar_url)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 ON CONFLICT (id) DO UPDATE
		 SET email = EXCLUDED.email,
		     full_name = EXCLUDED.full_name,
		     avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
		     updated_at = NOW()
		 RETURNING id, email, full_name, COALESCE(avatar_url, '')`,
		prof.UserID, prof.Email, prof.DisplayName, prof.AvatarURL,
	).Scan(&out.UserID, &out.Email, &out.DisplayName, &out.AvatarURL)
	if err != nil {
		return Profile{}, persistErr("save profile", err)
	}
	return out, nil
}

// UpdateAvatar sets the stored avatar URL.
func (p *Postgres) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	_, err := p.db.Exec(ctx,
		`UPDATE profiles SET avatar_url = $2, updated_at = NOW() WHERE id = $1`,
		userID, avatarURL,
	)
	if err != nil {
		return persistErr("update avatar", err)
	}
	return nil
}
