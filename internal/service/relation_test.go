package service

import (
	"context"
	"testing"

	"github.com/emrgen/compliance/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRelationService_Link(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	main := e.seedDocument(t, establishmentID)
	evidence := e.seedDocument(t, establishmentID)

	rel, err := e.relations.Link(ctx, principal, main.ID, LinkInput{
		ToDocumentID: evidence.ID,
		Type:         model.RelationTypeEvidence,
	})
	assert.NoError(t, err)
	assert.Equal(t, main.ID, rel.FromDocumentID)
	assert.Equal(t, evidence.ID, rel.ToDocumentID)
	assert.Equal(t, model.RelationTypeEvidence, rel.Type)
}

func TestRelationService_SelfRelation(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	doc := e.seedDocument(t, establishmentID)

	_, err := e.relations.Link(ctx, principal, doc.ID, LinkInput{
		ToDocumentID: doc.ID,
		Type:         model.RelationTypeReference,
	})
	assert.ErrorIs(t, err, ErrSelfRelation)
}

func TestRelationService_DuplicateEitherDirection(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	a := e.seedDocument(t, establishmentID)
	b := e.seedDocument(t, establishmentID)

	_, err := e.relations.Link(ctx, principal, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeEvidence,
	})
	assert.NoError(t, err)

	// same direction
	_, err = e.relations.Link(ctx, principal, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeEvidence,
	})
	assert.ErrorIs(t, err, ErrDuplicateRelation)

	// reversed direction, same type
	_, err = e.relations.Link(ctx, principal, b.ID, LinkInput{
		ToDocumentID: a.ID,
		Type:         model.RelationTypeEvidence,
	})
	assert.ErrorIs(t, err, ErrDuplicateRelation)

	// another type between the same pair is fine
	_, err = e.relations.Link(ctx, principal, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeReference,
	})
	assert.NoError(t, err)
}

func TestRelationService_CrossScope(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentA := e.seedTenancy(t, uuid.New().String())
	_, establishmentB := e.seedTenancy(t, uuid.New().String())
	a := e.seedDocument(t, establishmentA)
	b := e.seedDocument(t, establishmentB)

	_, err := e.relations.Link(ctx, principal, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeReference,
	})
	assert.ErrorIs(t, err, ErrCrossScope)
}

func TestRelationService_LinkToDeletedDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	a := e.seedDocument(t, establishmentID)
	b := e.seedDocument(t, establishmentID)

	assert.NoError(t, e.documents.DeleteDocument(ctx, principal, b.ID))

	_, err := e.relations.Link(ctx, principal, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeReference,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelationService_ListDirections(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	main := e.seedDocument(t, establishmentID)
	evidence := e.seedDocument(t, establishmentID)
	policy := e.seedDocument(t, establishmentID)

	_, err := e.relations.Link(ctx, principal, main.ID, LinkInput{
		ToDocumentID: evidence.ID,
		Type:         model.RelationTypeEvidence,
	})
	assert.NoError(t, err)
	_, err = e.relations.Link(ctx, principal, policy.ID, LinkInput{
		ToDocumentID: main.ID,
		Type:         model.RelationTypeReference,
	})
	assert.NoError(t, err)

	parents, err := e.relations.List(ctx, principal, main.ID, DirectionParent, nil)
	assert.NoError(t, err)
	assert.Len(t, parents, 1)
	assert.Equal(t, evidence.ID, parents[0].ToDocumentID)

	children, err := e.relations.List(ctx, principal, main.ID, DirectionChild, nil)
	assert.NoError(t, err)
	assert.Len(t, children, 1)
	assert.Equal(t, policy.ID, children[0].FromDocumentID)

	all, err := e.relations.List(ctx, principal, main.ID, DirectionAll, nil)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	evidenceType := model.RelationTypeEvidence
	typed, err := e.relations.List(ctx, principal, main.ID, DirectionAll, &evidenceType)
	assert.NoError(t, err)
	assert.Len(t, typed, 1)
	assert.Equal(t, model.RelationTypeEvidence, typed[0].Type)
}

func TestRelationService_Unlink(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	principal := e.assistant(t)
	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	a := e.seedDocument(t, establishmentID)
	b := e.seedDocument(t, establishmentID)
	c := e.seedDocument(t, establishmentID)

	rel, err := e.relations.Link(ctx, principal, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeEvidence,
	})
	assert.NoError(t, err)

	// the path document must sit on one end of the edge
	err = e.relations.Unlink(ctx, principal, c.ID, rel.ID)
	assert.ErrorIs(t, err, ErrMismatch)

	// unlinking from the target side works too
	assert.NoError(t, e.relations.Unlink(ctx, principal, b.ID, rel.ID))

	err = e.relations.Unlink(ctx, principal, a.ID, rel.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelationService_ViewerCannotLink(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	_, establishmentID := e.seedTenancy(t, uuid.New().String())
	a := e.seedDocument(t, establishmentID)
	b := e.seedDocument(t, establishmentID)

	viewer := e.viewer(t)
	_, err := e.relations.Link(ctx, viewer, a.ID, LinkInput{
		ToDocumentID: b.ID,
		Type:         model.RelationTypeReference,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("")
	assert.True(t, ok)
	assert.Equal(t, DirectionParent, d)

	d, ok = ParseDirection("child")
	assert.True(t, ok)
	assert.Equal(t, DirectionChild, d)

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
