package ledger

import "fmt"

// Strategy chooses which provider receives an upload.
type Strategy string

const (
	// StrategyMostAvailable picks the linked provider with the most free bytes.
	// Ties go to the provider listed first in the registry.
	StrategyMostAvailable Strategy = "most-available"
	// StrategyCaller uses the provider id supplied with the upload.
	StrategyCaller Strategy = "caller"
)

// ParseStrategy converts a configuration or request value into a Strategy.
// An empty value means StrategyMostAvailable.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyMostAvailable:
		return StrategyMostAvailable, nil
	case StrategyCaller:
		return StrategyCaller, nil
	}
	return "", fmt.Errorf("unknown upload strategy %q", s)
}

// Select returns the provider that should store size bytes. requested is only
// consulted by StrategyCaller.
func (l *Ledger) Select(s Strategy, requested string, size int64) (string, error) {
	switch s {
	case StrategyCaller:
		if requested == "" {
			return "", ErrProviderRequired
		}
		p, err := l.lookup(requested)
		if err != nil {
			return "", err
		}
		if !p.IsLinked {
			return "", fmt.Errorf("%w: %s", ErrProviderNotLinked, requested)
		}
		return p.ID, nil

	case StrategyMostAvailable:
		best := -1
		for i := range l.providers {
			p := &l.providers[i]
			if !p.IsLinked {
				continue
			}
			if best < 0 || p.AvailableBytes() > l.providers[best].AvailableBytes() {
				best = i
			}
		}
		if best < 0 {
			return "", ErrNoLinkedProvider
		}
		chosen := l.providers[best]
		if l.policy == PolicyReject && chosen.AvailableBytes() < size {
			return "", fmt.Errorf("%w: largest free space is %d bytes on %s, need %d",
				ErrQuotaExceeded, chosen.AvailableBytes(), chosen.ID, size)
		}
		return chosen.ID, nil
	}
	return "", fmt.Errorf("unknown upload strategy %q", s)
}
