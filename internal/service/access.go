package service

import (
	"context"
	"errors"

	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
)

// accessGate wraps the resolver with the fail-fast policy: authorization is
// decided before any mutation begins, and an unresolvable establishment is
// indistinguishable from a missing resource.
type accessGate struct {
	resolver *auth.Resolver
}

func (g accessGate) requireRead(ctx context.Context, principalID, establishmentID string) (auth.AccessLevel, error) {
	level, err := g.resolve(ctx, principalID, establishmentID)
	if err != nil {
		return level, err
	}
	if !level.CanRead() {
		return level, ErrForbidden
	}
	return level, nil
}

func (g accessGate) requireWrite(ctx context.Context, principalID, establishmentID string) (auth.AccessLevel, error) {
	level, err := g.resolve(ctx, principalID, establishmentID)
	if err != nil {
		return level, err
	}
	if !level.CanWrite() {
		return level, ErrForbidden
	}
	return level, nil
}

func (g accessGate) resolve(ctx context.Context, principalID, establishmentID string) (auth.AccessLevel, error) {
	level, err := g.resolver.Resolve(ctx, principalID, establishmentID)
	if err != nil {
		if errors.Is(err, auth.ErrEstablishmentNotFound) {
			return level, ErrNotFound
		}
		return level, err
	}
	return level, nil
}

// loadDocument fetches a document treating missing and deleted rows alike.
func loadDocument(ctx context.Context, s store.DocumentStore, id string) (*model.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.Deleted() {
		return nil, ErrNotFound
	}
	return doc, nil
}
