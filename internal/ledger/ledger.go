// Package ledger tracks linkage and quota usage for each cloud-storage provider
// in a session.
package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/cloudvault/service/internal/registry"
)

// ErrUnknownProvider is returned when a provider id is not in the ledger.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrQuotaExceeded is returned when a debit does not fit in the provider quota.
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrInvalidSize is returned for negative byte counts and for debits that
// would overflow the usage counter.
var ErrInvalidSize = errors.New("invalid size")

// ErrProviderNotLinked is returned when an operation needs a linked provider.
var ErrProviderNotLinked = errors.New("provider not linked")

// ErrProviderRequired is returned when the caller strategy is used without
// a provider id.
var ErrProviderRequired = errors.New("provider id required")

// ErrNoLinkedProvider is returned when no provider is linked at all.
var ErrNoLinkedProvider = errors.New("no linked provider")

// Provider is the ledger entry for one cloud-storage service.
type Provider struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
	QuotaBytes  int64  `json:"quotaBytes"`
	UsedBytes   int64  `json:"usedBytes"`
	IsLinked    bool   `json:"isLinked"`
	ColorTag    string `json:"colorTag"`
	SignupURL   string `json:"signupUrl"`
}

// AvailableBytes returns the unused part of the quota, never negative.
func (p Provider) AvailableBytes() int64 {
	if p.UsedBytes >= p.QuotaBytes {
		return 0
	}
	return p.QuotaBytes - p.UsedBytes
}

// Policy decides what Debit does when a write would exceed the quota.
type Policy string

const (
	// PolicyReject refuses the debit with ErrQuotaExceeded.
	PolicyReject Policy = "reject"
	// PolicyOverflow applies the debit and reports it through the overflow hook.
	PolicyOverflow Policy = "overflow"
)

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyOverflow:
		return PolicyOverflow, nil
	}
	return "", fmt.Errorf("unknown quota policy %q", s)
}

// OverflowFunc is called after a debit pushed a provider past its quota.
type OverflowFunc func(p Provider, bytes int64)

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy sets the quota policy. The default is PolicyReject.
func WithPolicy(p Policy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithOverflowHook registers fn to observe overflowing debits.
func WithOverflowHook(fn OverflowFunc) Option {
	return func(l *Ledger) { l.onOverflow = fn }
}

// Ledger maps provider ids to their linkage and usage. It is not safe for
// concurrent use; callers serialize access.
type Ledger struct {
	providers  []Provider
	index      map[string]int
	policy     Policy
	onOverflow OverflowFunc
}

// New seeds a ledger from the registry catalog. Every provider starts unlinked
// with nothing used.
func New(seed []registry.Provider, opts ...Option) *Ledger {
	l := &Ledger{
		providers: make([]Provider, 0, len(seed)),
		index:     make(map[string]int, len(seed)),
		policy:    PolicyReject,
	}
	for _, p := range seed {
		l.index[p.ID] = len(l.providers)
		l.providers = append(l.providers, Provider{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Icon:        p.Icon,
			QuotaBytes:  p.QuotaBytes,
			ColorTag:    p.ColorTag,
			SignupURL:   p.SignupURL,
		})
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the quota policy in force.
func (l *Ledger) Policy() Policy {
	return l.policy
}

func (l *Ledger) lookup(id string) (*Provider, error) {
	i, ok := l.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	return &l.providers[i], nil
}

// Get returns a copy of the provider entry.
func (l *Ledger) Get(id string) (Provider, error) {
	p, err := l.lookup(id)
	if err != nil {
		return Provider{}, err
	}
	return *p, nil
}

// Link marks the provider as linked.
func (l *Ledger) Link(id string) error {
	p, err := l.lookup(id)
	if err != nil {
		return err
	}
	p.IsLinked = true
	return nil
}

// Unlink marks the provider as unlinked. Files stored on it are left alone.
func (l *Ledger) Unlink(id string) error {
	p, err := l.lookup(id)
	if err != nil {
		return err
	}
	p.IsLinked = false
	return nil
}

// Debit adds bytes to the provider's usage, subject to the quota policy.
func (l *Ledger) Debit(id string, bytes int64) error {
	if bytes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, bytes)
	}
	p, err := l.lookup(id)
	if err != nil {
		return err
	}
	if bytes > p.QuotaBytes-p.UsedBytes {
		if l.policy == PolicyReject {
			return fmt.Errorf("%w: %s has %d bytes free, need %d", ErrQuotaExceeded, id, p.AvailableBytes(), bytes)
		}
		if bytes > math.MaxInt64-p.UsedBytes {
			return fmt.Errorf("%w: %d bytes overflows usage of %s", ErrInvalidSize, bytes, id)
		}
		p.UsedBytes += bytes
		if l.onOverflow != nil {
			l.onOverflow(*p, bytes)
		}
		return nil
	}
	p.UsedBytes += bytes
	return nil
}

// Credit subtracts bytes from the provider's usage, floored at zero.
func (l *Ledger) Credit(id string, bytes int64) error {
	if bytes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, bytes)
	}
	p, err := l.lookup(id)
	if err != nil {
		return err
	}
	p.UsedBytes -= bytes
	if p.UsedBytes < 0 {
		p.UsedBytes = 0
	}
	return nil
}

// Adjust applies a signed usage change without consulting the quota policy.
// It is used to undo a Credit and while hydrating persisted state.
func (l *Ledger) Adjust(id string, delta int64) error {
	p, err := l.lookup(id)
	if err != nil {
		return err
	}
	p.UsedBytes = AddBytes(p.UsedBytes, delta)
	if p.UsedBytes < 0 {
		p.UsedBytes = 0
	}
	return nil
}

// AddBytes returns a+b saturated at math.MaxInt64 for non-negative a.
func AddBytes(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Restore overwrites linkage and usage with persisted values. A non-positive
// quota keeps the registry quota.
func (l *Ledger) Restore(id string, linked bool, quotaBytes, usedBytes int64) error {
	p, err := l.lookup(id)
	if err != nil {
		return err
	}
	p.IsLinked = linked
	if quotaBytes > 0 {
		p.QuotaBytes = quotaBytes
	}
	if usedBytes < 0 {
		usedBytes = 0
	}
	p.UsedBytes = usedBytes
	return nil
}

// Snapshot returns a copy of every provider in registry order.
func (l *Ledger) Snapshot() []Provider {
	out := make([]Provider, len(l.providers))
	copy(out, l.providers)
	return out
}

// IsLinked reports whether id is a linked provider. Unknown ids are not linked.
func (l *Ledger) IsLinked(id string) bool {
	i, ok := l.index[id]
	return ok && l.providers[i].IsLinked
}
