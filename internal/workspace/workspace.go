// Package workspace binds one session's ledger, catalog and aggregation facade
// to a persistence backend. Every mutation is applied in memory, persisted,
// and rolled back if persistence fails.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cloudvault/service/internal/aggregate"
	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/ledger"
	"github.com/cloudvault/service/internal/registry"
)

// Options configures the bookkeeping policies of a workspace.
type Options struct {
	Policy   ledger.Policy
	Strategy ledger.Strategy
	Logger   *zap.Logger
}

// UploadRequest describes a file to record. When Strategy is empty and
// ProviderID is set, the caller strategy is used; otherwise the workspace
// default applies.
type UploadRequest struct {
	Category   string
	Name       string
	SizeBytes  int64
	MimeType   string
	ProviderID string
	Strategy   ledger.Strategy
}

// Workspace is the per-session bookkeeping context. It is safe for concurrent
// use; operations are serialized, including their backend calls.
type Workspace struct {
	mu       sync.Mutex
	userID   string
	backend  backend.Backend
	policy   ledger.Policy
	strategy ledger.Strategy
	log      *zap.Logger

	ledger  *ledger.Ledger
	catalog *catalog.Catalog
	facade  *aggregate.Facade
}

// New creates a workspace seeded from the registry.
func New(userID string, b backend.Backend, opts Options) *Workspace {
	if opts.Policy == "" {
		opts.Policy = ledger.PolicyReject
	}
	if opts.Strategy == "" {
		opts.Strategy = ledger.StrategyMostAvailable
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	w := &Workspace{
		userID:   userID,
		backend:  b,
		policy:   opts.Policy,
		strategy: opts.Strategy,
		log:      opts.Logger.With(zap.String("user_id", userID)),
	}
	w.seed()
	return w
}

func (w *Workspace) seed() {
	w.ledger = ledger.New(registry.List(),
		ledger.WithPolicy(w.policy),
		ledger.WithOverflowHook(func(p ledger.Provider, bytes int64) {
			w.log.Warn("provider over quota",
				zap.String("provider", p.ID),
				zap.Int64("debit_bytes", bytes),
				zap.Int64("used_bytes", p.UsedBytes),
				zap.Int64("quota_bytes", p.QuotaBytes),
			)
		}),
	)
	w.catalog = catalog.New(w.ledger)
	w.facade = aggregate.New(w.ledger, w.catalog)
}

// Open creates a workspace and hydrates it from the backend. Providers and
// categories are loaded concurrently.
func Open(ctx context.Context, userID string, b backend.Backend, opts Options) (*Workspace, error) {
	w := New(userID, b, opts)

	var (
		states []backend.ProviderState
		cats   []catalog.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		states, err = b.LoadProviders(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = b.LoadCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("hydrate workspace: %w", err)
	}

	for _, s := range states {
		if err := w.ledger.Restore(s.ProviderID, s.IsLinked, s.QuotaBytes, s.UsedBytes); err != nil {
			w.log.Warn("skipping stored provider", zap.String("provider", s.ProviderID), zap.Error(err))
		}
	}
	files := 0
	for _, cat := range cats {
		for _, rec := range cat.Files {
			// Files the ledger cannot credit back would fail removal after the
			// backend row is gone.
			if _, err := w.ledger.Get(rec.ProviderID); err != nil || rec.SizeBytes < 0 {
				w.log.Warn("skipping stored file", zap.String("file_id", rec.ID), zap.String("provider", rec.ProviderID))
				continue
			}
			w.catalog.Restore(rec, cat.DisplayName)
			files++
		}
	}
	w.log.Debug("workspace hydrated", zap.Int("providers", len(states)), zap.Int("files", files))
	return w, nil
}

// UserID returns the owner of the workspace.
func (w *Workspace) UserID() string {
	return w.userID
}

// Reset wipes the workspace back to the registry seed. Nothing is persisted.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seed()
}

// Link marks a provider linked and persists it.
func (w *Workspace) Link(ctx context.Context, providerID string) (ledger.Provider, error) {
	return w.setLinked(ctx, providerID, true)
}

// Unlink marks a provider unlinked and persists it. Files stored on the
// provider stay in the catalog as orphans.
func (w *Workspace) Unlink(ctx context.Context, providerID string) (ledger.Provider, error) {
	return w.setLinked(ctx, providerID, false)
}

func (w *Workspace) setLinked(ctx context.Context, providerID string, linked bool) (ledger.Provider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, err := w.ledger.Get(providerID)
	if err != nil {
		return ledger.Provider{}, err
	}

	apply, undo := w.ledger.Link, w.ledger.Unlink
	if !linked {
		apply, undo = w.ledger.Unlink, w.ledger.Link
	}
	if err := apply(providerID); err != nil {
		return ledger.Provider{}, err
	}
	cur, _ := w.ledger.Get(providerID)

	if err := w.backend.SaveProviderLink(ctx, w.userID, cur); err != nil {
		if prev.IsLinked != cur.IsLinked {
			_ = undo(providerID)
		}
		w.log.Error("persist provider link failed", zap.String("provider", providerID), zap.Bool("linked", linked), zap.Error(err))
		return ledger.Provider{}, err
	}

	w.log.Info("provider link changed", zap.String("provider", providerID), zap.Bool("linked", linked))
	return cur, nil
}

// Upload selects a provider, records the file and persists it. If the
// backend fails, the record, the debit and any category created for it are
// rolled back.
func (w *Workspace) Upload(ctx context.Context, req UploadRequest) (catalog.FileRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	strategy := req.Strategy
	if strategy == "" {
		strategy = w.strategy
		if req.ProviderID != "" {
			strategy = ledger.StrategyCaller
		}
	}

	providerID, err := w.ledger.Select(strategy, req.ProviderID, req.SizeBytes)
	if err != nil {
		return catalog.FileRecord{}, fmt.Errorf("select provider: %w", err)
	}

	existed := w.catalog.Has(req.Category)
	rec, err := w.catalog.Upload(req.Category, req.Name, req.SizeBytes, req.MimeType, providerID)
	if err != nil {
		return catalog.FileRecord{}, err
	}
	cat, _ := w.catalog.Category(rec.CategoryID)

	if err := w.backend.SaveFileRecord(ctx, w.userID, rec, cat.DisplayName); err != nil {
		if _, rbErr := w.catalog.Remove(rec.ID, rec.CategoryID); rbErr != nil {
			w.log.Error("rollback upload failed", zap.String("file_id", rec.ID), zap.Error(rbErr))
		}
		if !existed {
			w.catalog.Drop(rec.CategoryID)
		}
		w.log.Error("persist upload failed", zap.String("file_id", rec.ID), zap.Error(err))
		return catalog.FileRecord{}, err
	}

	w.log.Info("file uploaded",
		zap.String("file_id", rec.ID),
		zap.String("category", rec.CategoryID),
		zap.String("provider", providerID),
		zap.Int64("size_bytes", rec.SizeBytes),
	)
	return rec, nil
}

// Remove deletes the file from the backend and then from the catalog,
// crediting its provider. On any failure nothing changes.
func (w *Workspace) Remove(ctx context.Context, fileID, categoryKey string) (catalog.FileRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.catalog.Find(fileID, categoryKey); err != nil {
		return catalog.FileRecord{}, err
	}
	if err := w.backend.DeleteFileRecord(ctx, w.userID, fileID); err != nil {
		w.log.Error("persist delete failed", zap.String("file_id", fileID), zap.Error(err))
		return catalog.FileRecord{}, err
	}
	rec, err := w.catalog.Remove(fileID, categoryKey)
	if err != nil {
		return catalog.FileRecord{}, err
	}

	w.log.Info("file removed", zap.String("file_id", rec.ID), zap.String("provider", rec.ProviderID))
	return rec, nil
}

// Providers returns the ledger snapshot.
func (w *Workspace) Providers() []ledger.Provider {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.Snapshot()
}

// Categories returns every category with its files.
func (w *Workspace) Categories() []catalog.Category {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.Categories()
}

// Files lists a category, oldest first. Orphaned files are included.
func (w *Workspace) Files(categoryKey string) ([]catalog.FileRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.List(categoryKey)
}

// Totals returns byte sums over linked providers.
func (w *Workspace) Totals() aggregate.Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.facade.Totals()
}

// UtilizationPercent returns the used share of linked quota.
func (w *Workspace) UtilizationPercent() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.facade.UtilizationPercent()
}

// ByCategory returns per-category counts of non-orphaned files.
func (w *Workspace) ByCategory() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.facade.ByCategory()
}

// Summary returns the dashboard figures.
func (w *Workspace) Summary() aggregate.Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.facade.Summary()
}

// Orphans returns files whose provider is unlinked.
func (w *Workspace) Orphans() []catalog.FileRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.facade.Orphans()
}
