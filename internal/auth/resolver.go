package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/emrgen/compliance/internal/cache"
	"github.com/emrgen/compliance/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrEstablishmentNotFound is returned when the establishment does not
// resolve to an existing record. Callers must treat it exactly like "no
// access" so existence is not leaked.
var ErrEstablishmentNotFound = errors.New("establishment not found")

const tenancyCacheTTL = 5 * time.Minute

// Resolver classifies a principal's access to an establishment by combining
// role capabilities, company ownership and portal membership, in that order.
// Resolution is pure read; nothing is mutated.
type Resolver struct {
	caps  CapabilityProvider
	store store.Store
	kv    cache.KV
}

func NewResolver(caps CapabilityProvider, st store.Store, kv cache.KV) *Resolver {
	return &Resolver{
		caps:  caps,
		store: st,
		kv:    kv,
	}
}

// Resolve computes the access level of the principal for the establishment.
// First match wins: global admin, owning tenant admin, mutation capability,
// read capability or portal membership, otherwise MEMBER.
func (r *Resolver) Resolve(ctx context.Context, principalID, establishmentID string) (AccessLevel, error) {
	scope := scopeFrom(ctx)
	scopeKey := principalID + "/" + establishmentID
	if scope != nil {
		if level, ok := scope.level(scopeKey); ok {
			return level, nil
		}
	}

	level, err := r.resolve(ctx, scope, principalID, establishmentID)
	if err != nil {
		return LevelMember, err
	}

	if scope != nil {
		scope.setLevel(scopeKey, level)
	}

	return level, nil
}

func (r *Resolver) resolve(ctx context.Context, scope *requestScope, principalID, establishmentID string) (AccessLevel, error) {
	caps, err := r.caps.Capabilities(ctx, principalID)
	if err != nil {
		return LevelMember, err
	}

	if caps.Contains(CapabilityGlobalAdmin) {
		return LevelGlobal, nil
	}

	establishment, err := r.establishment(ctx, establishmentID)
	if err != nil {
		if store.IsNotFound(err) {
			return LevelMember, ErrEstablishmentNotFound
		}
		return LevelMember, err
	}

	if caps.Contains(CapabilityTenantAdmin) {
		company, err := r.store.GetCompany(ctx, establishment.CompanyID)
		if err != nil && !store.IsNotFound(err) {
			return LevelMember, err
		}
		if company != nil && company.CreatedByUserID == principalID {
			return LevelCompanyAdmin, nil
		}
	}

	if ContainsAny(caps, mutationCapabilities) {
		return LevelAssistant, nil
	}

	if ContainsAny(caps, readCapabilities) {
		return LevelViewer, nil
	}

	linked, err := r.portalMember(ctx, scope, principalID, establishment.CompanyID, establishment.ID)
	if err != nil {
		return LevelMember, err
	}
	if linked {
		return LevelViewer, nil
	}

	return LevelMember, nil
}

type cachedEstablishment struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
}

// establishment resolves the establishment's tenancy coordinates, serving
// repeats from the process cache. Only positive lookups are cached.
func (r *Resolver) establishment(ctx context.Context, id string) (*cachedEstablishment, error) {
	key := "tenancy:establishment:" + id

	if r.kv != nil {
		if buf, err := r.kv.Get(ctx, key); err == nil {
			var cached cachedEstablishment
			if err := json.Unmarshal(buf, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	establishment, err := r.store.GetEstablishment(ctx, id)
	if err != nil {
		return nil, err
	}

	cached := &cachedEstablishment{
		ID:        establishment.ID,
		CompanyID: establishment.CompanyID,
	}

	if r.kv != nil {
		buf, err := json.Marshal(cached)
		if err == nil {
			if err := r.kv.Set(ctx, key, buf, tenancyCacheTTL); err != nil {
				logrus.Warnf("failed to cache establishment %s: %v", id, err)
			}
		}
	}

	return cached, nil
}

// InvalidateEstablishment drops the cached tenancy coordinates, used when an
// establishment moves between companies.
func (r *Resolver) InvalidateEstablishment(ctx context.Context, id string) error {
	if r.kv == nil {
		return nil
	}
	return r.kv.Delete(ctx, "tenancy:establishment:"+id)
}

func (r *Resolver) portalMember(ctx context.Context, scope *requestScope, principalID, companyID, establishmentID string) (bool, error) {
	key := principalID + "/" + companyID + "/" + establishmentID
	if scope != nil {
		if linked, ok := scope.member(key); ok {
			return linked, nil
		}
	}

	linked, err := r.store.HasPortalMembership(ctx, principalID, companyID, establishmentID)
	if err != nil {
		return false, err
	}

	if scope != nil {
		scope.setMember(key, linked)
	}

	return linked, nil
}
