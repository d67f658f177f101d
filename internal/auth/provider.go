package auth

import (
	"context"

	"github.com/emrgen/compliance/internal/store"
)

// CapabilityProvider resolves a principal's capability set. The tags are
// owned by the identity service; implementations only read them.
type CapabilityProvider interface {
	Capabilities(ctx context.Context, principalID string) (CapabilitySet, error)
}

// StoreCapabilityProvider reads capability rows synced from the identity
// service into the local database.
type StoreCapabilityProvider struct {
	store store.TenancyStore
}

var _ CapabilityProvider = (*StoreCapabilityProvider)(nil)

func NewStoreCapabilityProvider(store store.TenancyStore) *StoreCapabilityProvider {
	return &StoreCapabilityProvider{store: store}
}

func (p *StoreCapabilityProvider) Capabilities(ctx context.Context, principalID string) (CapabilitySet, error) {
	tags, err := p.store.ListCapabilities(ctx, principalID)
	if err != nil {
		return nil, err
	}

	return ParseCapabilitySet(tags), nil
}

// StaticCapabilityProvider serves capability sets from memory. Used in tests
// and by the seed tooling.
type StaticCapabilityProvider struct {
	grants map[string]CapabilitySet
}

var _ CapabilityProvider = (*StaticCapabilityProvider)(nil)

func NewStaticCapabilityProvider() *StaticCapabilityProvider {
	return &StaticCapabilityProvider{
		grants: make(map[string]CapabilitySet),
	}
}

func (p *StaticCapabilityProvider) Grant(principalID string, caps ...Capability) {
	set, ok := p.grants[principalID]
	if !ok {
		set = NewCapabilitySet()
		p.grants[principalID] = set
	}
	for _, c := range caps {
		set.Add(c)
	}
}

func (p *StaticCapabilityProvider) Capabilities(ctx context.Context, principalID string) (CapabilitySet, error) {
	if set, ok := p.grants[principalID]; ok {
		return set, nil
	}

	return NewCapabilitySet(), nil
}
