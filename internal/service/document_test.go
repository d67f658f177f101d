package service

import (
	"context"
	"strings"
	"testing"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDocumentService_CreateDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())

	doc, err := e.documents.CreateDocument(ctx, principal, CreateDocumentInput{
		EstablishmentID: establishmentID,
		Name:            "fire safety plan",
		Description:     "annual plan",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.DocumentStatusDraft, doc.Status)
	assert.Equal(t, model.DocumentKindMain, doc.Kind)
	assert.Nil(t, doc.CurrentVersionID)
	assert.Equal(t, principal, doc.CreatedByUserID)

	_, err = e.documents.CreateDocument(ctx, principal, CreateDocumentInput{
		EstablishmentID: establishmentID,
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDocumentService_CreateInUnknownEstablishment(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)

	// a missing establishment reads as not-found, never as forbidden
	_, err := e.documents.CreateDocument(ctx, principal, CreateDocumentInput{
		EstablishmentID: uuid.New().String(),
		Name:            "orphan",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	doc := e.seedDocument(t, establishmentID)

	name := "updated name"
	updated, err := e.documents.UpdateDocument(ctx, principal, doc.ID, UpdateDocumentInput{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "updated name", updated.Name)
	assert.Equal(t, model.DocumentStatusDraft, updated.Status)

	empty := ""
	_, err = e.documents.UpdateDocument(ctx, principal, doc.ID, UpdateDocumentInput{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDocumentService_ListDocuments(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	e.seedDocument(t, establishmentID)
	deleted := e.seedDocument(t, establishmentID)

	assert.NoError(t, e.documents.DeleteDocument(ctx, principal, deleted.ID))

	docs, total, err := e.documents.ListDocuments(ctx, principal, establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, docs, 1)
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	doc := e.seedDocument(t, establishmentID)

	v, err := e.versions.CreateVersion(ctx, principal, doc.ID, CreateVersionInput{
		FileName: "a.pdf",
		Content:  strings.NewReader("content"),
	})
	assert.NoError(t, err)
	_, err = e.versions.Activate(ctx, principal, doc.ID, v.ID)
	assert.NoError(t, err)

	assert.NoError(t, e.documents.DeleteDocument(ctx, principal, doc.ID))

	// deleted documents do not resolve through the service
	_, err = e.documents.GetDocument(ctx, principal, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the row keeps the audit trail but drops the current pointer
	raw, err := e.store.GetDocument(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.DocumentStatusDeleted, raw.Status)
	assert.Nil(t, raw.CurrentVersionID)
	assert.NotNil(t, raw.DeletedAt)

	// delete is terminal
	err = e.documents.DeleteDocument(ctx, principal, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	last := e.sink.Events[len(e.sink.Events)-1]
	assert.Equal(t, audit.ActionDelete, last.Action)
}

func TestDocumentService_ViewerCannotMutate(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	doc := e.seedDocument(t, establishmentID)

	viewer := e.viewer(t)

	got, err := e.documents.GetDocument(ctx, viewer, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = e.documents.CreateDocument(ctx, viewer, CreateDocumentInput{
		EstablishmentID: establishmentID,
		Name:            "nope",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	err = e.documents.DeleteDocument(ctx, viewer, doc.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDocumentService_MemberIsForbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	doc := e.seedDocument(t, establishmentID)

	// a principal with no grants and no membership is forbidden, not told
	// whether the document exists elsewhere
	stranger := uuid.New().String()
	_, err := e.documents.GetDocument(ctx, stranger, doc.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
