package service

import (
	"context"
	"testing"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/blob"
	"github.com/emrgen/compliance/internal/cache"
	"github.com/emrgen/compliance/internal/compress"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/emrgen/compliance/internal/tester"
	"github.com/google/uuid"
)

type env struct {
	store     *store.GormStore
	caps      *auth.StaticCapabilityProvider
	resolver  *auth.Resolver
	sink      *audit.MemorySink
	documents *DocumentService
	versions  *VersionService
	relations *RelationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	caps := auth.NewStaticCapabilityProvider()
	resolver := auth.NewResolver(caps, st, cache.NewMemory())
	sink := audit.NewMemorySink()
	blobs := blob.NewFilesystem(tester.BlobDir(), compress.NewNop())

	return &env{
		store:     st,
		caps:      caps,
		resolver:  resolver,
		sink:      sink,
		documents: NewDocumentService(st, resolver, sink),
		versions:  NewVersionService(st, resolver, blobs, sink),
		relations: NewRelationService(st, resolver, sink),
	}
}

// seedTenancy creates a company owned by ownerID with one establishment.
func (e *env) seedTenancy(t *testing.T, ownerID string) (companyID, establishmentID string) {
	t.Helper()
	ctx := context.TODO()

	company := &model.Company{
		ID:              uuid.New().String(),
		Name:            "Acme Compliance",
		CreatedByUserID: ownerID,
	}
	if err := e.store.CreateCompany(ctx, company); err != nil {
		t.Fatal(err)
	}

	establishment := &model.Establishment{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Name:      "Main Site",
	}
	if err := e.store.CreateEstablishment(ctx, establishment); err != nil {
		t.Fatal(err)
	}

	return company.ID, establishment.ID
}

// seedEmployee links a principal as portal employee of the pair.
func (e *env) seedEmployee(t *testing.T, principalID, companyID, establishmentID string) {
	t.Helper()
	employee := &model.Employee{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		EstablishmentID: establishmentID,
		PortalUserID:    &principalID,
	}
	if err := e.store.CreateEmployee(context.TODO(), employee); err != nil {
		t.Fatal(err)
	}
}

// seedDocument creates a draft document directly in the store.
func (e *env) seedDocument(t *testing.T, establishmentID string) *model.Document {
	t.Helper()
	doc := &model.Document{
		ID:              uuid.New().String(),
		EstablishmentID: establishmentID,
		Kind:            model.DocumentKindMain,
		Name:            "safety policy",
		Status:          model.DocumentStatusDraft,
		CreatedByUserID: uuid.New().String(),
	}
	if err := e.store.CreateDocument(context.TODO(), doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

// assistant grants document-mutation capabilities to a fresh principal.
func (e *env) assistant(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	e.caps.Grant(id, auth.CapabilityVersionCreate, auth.CapabilityVersionActivate, auth.CapabilityVersionArchive, auth.CapabilityDocumentCreate, auth.CapabilityDocumentUpdate, auth.CapabilityDocumentDelete)
	return id
}

// viewer grants read capabilities to a fresh principal.
func (e *env) viewer(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	e.caps.Grant(id, auth.CapabilityDocumentRead, auth.CapabilityVersionRead)
	return id
}
