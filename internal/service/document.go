package service

import (
	"context"
	"time"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewDocumentService creates a new DocumentService.
func NewDocumentService(st store.Store, resolver *auth.Resolver, sink audit.Sink) *DocumentService {
	return &DocumentService{
		store: st,
		gate:  accessGate{resolver: resolver},
		audit: sink,
	}
}

// DocumentService manages document records and their soft-delete lifecycle.
type DocumentService struct {
	store store.Store
	gate  accessGate
	audit audit.Sink
}

type CreateDocumentInput struct {
	EstablishmentID string
	Kind            model.DocumentKind
	Name            string
	Description     string
}

type UpdateDocumentInput struct {
	Name        *string
	Description *string
}

// CreateDocument creates a document in DRAFT with no version.
func (d *DocumentService) CreateDocument(ctx context.Context, principalID string, input CreateDocumentInput) (*model.Document, error) {
	if input.Name == "" || input.EstablishmentID == "" {
		return nil, ErrInvalidArgument
	}

	kind := input.Kind
	if kind == "" {
		kind = model.DocumentKindMain
	}

	if _, err := d.gate.requireWrite(ctx, principalID, input.EstablishmentID); err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:              uuid.New().String(),
		EstablishmentID: input.EstablishmentID,
		Kind:            kind,
		Name:            input.Name,
		Description:     input.Description,
		Status:          model.DocumentStatusDraft,
		CreatedByUserID: principalID,
	}

	if err := d.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// GetDocument retrieves a document.
func (d *DocumentService) GetDocument(ctx context.Context, principalID, id string) (*model.Document, error) {
	doc, err := loadDocument(ctx, d.store, id)
	if err != nil {
		return nil, err
	}

	if _, err := d.gate.requireRead(ctx, principalID, doc.EstablishmentID); err != nil {
		return nil, err
	}

	return doc, nil
}

// ListDocuments lists the non-deleted documents of an establishment.
func (d *DocumentService) ListDocuments(ctx context.Context, principalID, establishmentID string) ([]*model.Document, int64, error) {
	if _, err := d.gate.requireRead(ctx, principalID, establishmentID); err != nil {
		return nil, 0, err
	}

	return d.store.ListDocuments(ctx, establishmentID)
}

// UpdateDocument updates name and description. Lifecycle state is owned by
// the version engine and never touched here.
func (d *DocumentService) UpdateDocument(ctx context.Context, principalID, id string, input UpdateDocumentInput) (*model.Document, error) {
	doc, err := loadDocument(ctx, d.store, id)
	if err != nil {
		return nil, err
	}

	if _, err := d.gate.requireWrite(ctx, principalID, doc.EstablishmentID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrInvalidArgument
		}
		doc.Name = *input.Name
	}
	if input.Description != nil {
		doc.Description = *input.Description
	}

	if err := d.store.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument soft-deletes a document. All versions remain for audit; the
// current version pointer is cleared so a deleted document never references a
// published version.
func (d *DocumentService) DeleteDocument(ctx context.Context, principalID, id string) error {
	doc, err := loadDocument(ctx, d.store, id)
	if err != nil {
		return err
	}

	level, err := d.gate.requireWrite(ctx, principalID, doc.EstablishmentID)
	if err != nil {
		return err
	}

	err = d.store.Transaction(ctx, func(tx store.Store) error {
		locked, err := tx.GetDocumentForUpdate(ctx, doc.ID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if locked.Deleted() {
			return ErrNotFound
		}

		now := time.Now().UTC()
		locked.Status = model.DocumentStatusDeleted
		locked.DeletedAt = &now
		locked.CurrentVersionID = nil

		return tx.UpdateDocument(ctx, locked)
	})
	if err != nil {
		return err
	}

	logrus.Infof("document %s deleted by %s", doc.ID, principalID)
	d.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  doc.ID,
		Action:      audit.ActionDelete,
		AccessLevel: level.String(),
	})

	return nil
}
