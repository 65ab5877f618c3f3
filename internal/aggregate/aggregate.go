// Package aggregate derives cross-provider storage figures from the ledger and
// the file catalog. It owns no state.
package aggregate

import (
	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/ledger"
)

// ProviderSource yields the current provider entries.
type ProviderSource interface {
	Snapshot() []ledger.Provider
}

// CategorySource yields the current categories.
type CategorySource interface {
	Categories() []catalog.Category
}

// Totals are byte sums over linked providers only.
type Totals struct {
	TotalBytes     int64 `json:"totalBytes"`
	UsedBytes      int64 `json:"usedBytes"`
	AvailableBytes int64 `json:"availableBytes"`
}

// ProviderUsage is one provider tile of the dashboard.
type ProviderUsage struct {
	ID                 string  `json:"id"`
	DisplayName        string  `json:"displayName"`
	IsLinked           bool    `json:"isLinked"`
	QuotaBytes         int64   `json:"quotaBytes"`
	UsedBytes          int64   `json:"usedBytes"`
	AvailableBytes     int64   `json:"availableBytes"`
	UtilizationPercent float64 `json:"utilizationPercent"`
}

// CategoryUsage is one category tile of the dashboard. Orphaned files are not
// counted.
type CategoryUsage struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FileCount   int    `json:"fileCount"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// Summary bundles everything the dashboard renders in one read.
type Summary struct {
	Totals
	UtilizationPercent float64         `json:"utilizationPercent"`
	Providers          []ProviderUsage `json:"providers"`
	Categories         []CategoryUsage `json:"categories"`
	OrphanCount        int             `json:"orphanCount"`
}

// Facade computes read-only views over a ledger and a catalog.
type Facade struct {
	providers  ProviderSource
	categories CategorySource
}

// New creates a Facade.
func New(providers ProviderSource, categories CategorySource) *Facade {
	return &Facade{providers: providers, categories: categories}
}

// Totals sums quota and usage across linked providers. Unlinked providers are
// excluded entirely.
func (f *Facade) Totals() Totals {
	return totals(f.providers.Snapshot())
}

func totals(snap []ledger.Provider) Totals {
	var t Totals
	for _, p := range snap {
		if !p.IsLinked {
			continue
		}
		t.TotalBytes = ledger.AddBytes(t.TotalBytes, p.QuotaBytes)
		t.UsedBytes = ledger.AddBytes(t.UsedBytes, p.UsedBytes)
	}
	t.AvailableBytes = t.TotalBytes - t.UsedBytes
	if t.AvailableBytes < 0 {
		t.AvailableBytes = 0
	}
	return t
}

// UtilizationPercent returns used/total*100 in [0,100]; 0 when nothing is linked.
func (f *Facade) UtilizationPercent() float64 {
	t := f.Totals()
	return percent(t.UsedBytes, t.TotalBytes)
}

func percent(used, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(used) / float64(total) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func linkedSet(snap []ledger.Provider) map[string]bool {
	linked := make(map[string]bool, len(snap))
	for _, p := range snap {
		if p.IsLinked {
			linked[p.ID] = true
		}
	}
	return linked
}

// ByCategory counts files per category id, skipping files whose provider is
// not linked.
func (f *Facade) ByCategory() map[string]int {
	linked := linkedSet(f.providers.Snapshot())
	out := make(map[string]int)
	for _, cat := range f.categories.Categories() {
		n := 0
		for _, file := range cat.Files {
			if linked[file.ProviderID] {
				n++
			}
		}
		out[cat.ID] = n
	}
	return out
}

// Orphans returns files that reference an unlinked provider, in category order.
func (f *Facade) Orphans() []catalog.FileRecord {
	linked := linkedSet(f.providers.Snapshot())
	out := make([]catalog.FileRecord, 0)
	for _, cat := range f.categories.Categories() {
		for _, file := range cat.Files {
			if !linked[file.ProviderID] {
				out = append(out, file)
			}
		}
	}
	return out
}

// Summary computes totals, utilization and per-provider and per-category tiles
// from one snapshot of each source.
func (f *Facade) Summary() Summary {
	snap := f.providers.Snapshot()
	linked := linkedSet(snap)

	s := Summary{
		Totals:     totals(snap),
		Providers:  make([]ProviderUsage, 0, len(snap)),
		Categories: make([]CategoryUsage, 0),
	}
	s.UtilizationPercent = percent(s.UsedBytes, s.TotalBytes)

	for _, p := range snap {
		s.Providers = append(s.Providers, ProviderUsage{
			ID:                 p.ID,
			DisplayName:        p.DisplayName,
			IsLinked:           p.IsLinked,
			QuotaBytes:         p.QuotaBytes,
			UsedBytes:          p.UsedBytes,
			AvailableBytes:     p.AvailableBytes(),
			UtilizationPercent: percent(p.UsedBytes, p.QuotaBytes),
		})
	}

	for _, cat := range f.categories.Categories() {
		u := CategoryUsage{ID: cat.ID, DisplayName: cat.DisplayName}
		for _, file := range cat.Files {
			if !linked[file.ProviderID] {
				s.OrphanCount++
				continue
			}
			u.FileCount++
			u.SizeBytes += file.SizeBytes
		}
		s.Categories = append(s.Categories, u)
	}
	return s
}
