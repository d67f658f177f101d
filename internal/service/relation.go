package service

import (
	"context"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/google/uuid"
)

// Direction selects which side of the edges a listing walks.
type Direction string

const (
	// DirectionParent lists edges where the document is the source.
	DirectionParent Direction = "parent"
	// DirectionChild lists edges where the document is the target.
	DirectionChild Direction = "child"
	// DirectionAll lists edges touching the document on either side.
	DirectionAll Direction = "all"
)

// ParseDirection normalizes a raw direction, defaulting to parent.
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(raw) {
	case "":
		return DirectionParent, true
	case DirectionParent, DirectionChild, DirectionAll:
		return Direction(raw), true
	default:
		return DirectionParent, false
	}
}

// ParseRelationType validates a raw relation type.
func ParseRelationType(raw string) (model.RelationType, bool) {
	switch model.RelationType(raw) {
	case model.RelationTypeEvidence, model.RelationTypeReference, model.RelationTypeSupersedes:
		return model.RelationType(raw), true
	default:
		return "", false
	}
}

// NewRelationService creates a new RelationService.
func NewRelationService(st store.Store, resolver *auth.Resolver, sink audit.Sink) *RelationService {
	return &RelationService{
		store: st,
		gate:  accessGate{resolver: resolver},
		audit: sink,
	}
}

// RelationService maintains typed edges between documents of one
// establishment. Edges are stored directionally but are unique per type
// regardless of direction.
type RelationService struct {
	store store.Store
	gate  accessGate
	audit audit.Sink
}

type LinkInput struct {
	ToDocumentID string
	Type         model.RelationType
}

// Link creates an edge from the document to another document of the same
// establishment. The duplicate check and the insert share one transaction so
// two racing requests cannot both create the edge.
func (r *RelationService) Link(ctx context.Context, principalID, fromDocumentID string, input LinkInput) (*model.DocumentRelation, error) {
	if input.ToDocumentID == "" {
		return nil, ErrInvalidArgument
	}
	if _, ok := ParseRelationType(string(input.Type)); !ok {
		return nil, ErrInvalidArgument
	}
	if fromDocumentID == input.ToDocumentID {
		return nil, ErrSelfRelation
	}

	from, err := loadDocument(ctx, r.store, fromDocumentID)
	if err != nil {
		return nil, err
	}

	level, err := r.gate.requireWrite(ctx, principalID, from.EstablishmentID)
	if err != nil {
		return nil, err
	}

	to, err := loadDocument(ctx, r.store, input.ToDocumentID)
	if err != nil {
		return nil, err
	}
	if to.EstablishmentID != from.EstablishmentID {
		return nil, ErrCrossScope
	}

	relation := &model.DocumentRelation{
		ID:              uuid.New().String(),
		FromDocumentID:  from.ID,
		ToDocumentID:    to.ID,
		Type:            input.Type,
		CreatedByUserID: principalID,
	}

	err = r.store.Transaction(ctx, func(tx store.Store) error {
		exists, err := tx.RelationExists(ctx, from.ID, to.ID, input.Type)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateRelation
		}

		return tx.CreateRelation(ctx, relation)
	})
	if err != nil {
		return nil, err
	}

	r.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  from.ID,
		Action:      audit.ActionLink,
		AccessLevel: level.String(),
	})

	return relation, nil
}

// List returns the edges of a document in the given direction, optionally
// filtered by type.
func (r *RelationService) List(ctx context.Context, principalID, documentID string, direction Direction, relType *model.RelationType) ([]*model.DocumentRelation, error) {
	doc, err := loadDocument(ctx, r.store, documentID)
	if err != nil {
		return nil, err
	}

	if _, err := r.gate.requireRead(ctx, principalID, doc.EstablishmentID); err != nil {
		return nil, err
	}

	switch direction {
	case DirectionChild:
		return r.store.ListRelationsTo(ctx, doc.ID, relType)
	case DirectionAll:
		from, err := r.store.ListRelationsFrom(ctx, doc.ID, relType)
		if err != nil {
			return nil, err
		}
		to, err := r.store.ListRelationsTo(ctx, doc.ID, relType)
		if err != nil {
			return nil, err
		}
		return append(from, to...), nil
	default:
		return r.store.ListRelationsFrom(ctx, doc.ID, relType)
	}
}

// Unlink removes an edge. The edge must reference the document in the request
// path on either end, otherwise Mismatch.
func (r *RelationService) Unlink(ctx context.Context, principalID, documentID, relationID string) error {
	doc, err := loadDocument(ctx, r.store, documentID)
	if err != nil {
		return err
	}

	level, err := r.gate.requireWrite(ctx, principalID, doc.EstablishmentID)
	if err != nil {
		return err
	}

	relation, err := r.store.GetRelation(ctx, relationID)
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if !relation.References(doc.ID) {
		return ErrMismatch
	}

	if err := r.store.DeleteRelation(ctx, relation.ID); err != nil {
		return err
	}

	r.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  doc.ID,
		Action:      audit.ActionUnlink,
		AccessLevel: level.String(),
	})

	return nil
}
