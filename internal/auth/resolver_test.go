package auth_test

import (
	"context"
	"testing"

	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/cache"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/emrgen/compliance/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type resolverEnv struct {
	store    *store.GormStore
	caps     *auth.StaticCapabilityProvider
	resolver *auth.Resolver

	companyID       string
	establishmentID string
	ownerID         string
}

func newResolverEnv(t *testing.T) *resolverEnv {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	caps := auth.NewStaticCapabilityProvider()

	e := &resolverEnv{
		store:    st,
		caps:     caps,
		resolver: auth.NewResolver(caps, st, cache.NewMemory()),
		ownerID:  uuid.New().String(),
	}

	ctx := context.TODO()
	company := &model.Company{
		ID:              uuid.New().String(),
		Name:            "Acme Compliance",
		CreatedByUserID: e.ownerID,
	}
	if err := st.CreateCompany(ctx, company); err != nil {
		t.Fatal(err)
	}

	establishment := &model.Establishment{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Name:      "Main Site",
	}
	if err := st.CreateEstablishment(ctx, establishment); err != nil {
		t.Fatal(err)
	}

	e.companyID = company.ID
	e.establishmentID = establishment.ID
	return e
}

func TestResolver_PriorityOrder(t *testing.T) {
	e := newResolverEnv(t)
	ctx := context.TODO()

	// no grants, no membership
	level, err := e.resolver.Resolve(ctx, uuid.New().String(), e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelMember, level)

	// read tag
	viewer := uuid.New().String()
	e.caps.Grant(viewer, auth.CapabilityDocumentRead)
	level, err = e.resolver.Resolve(ctx, viewer, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelViewer, level)

	// any mutation tag beats read tags
	assistant := uuid.New().String()
	e.caps.Grant(assistant, auth.CapabilityDocumentRead, auth.CapabilityVersionActivate)
	level, err = e.resolver.Resolve(ctx, assistant, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelAssistant, level)

	// tenant.admin of the owning company
	e.caps.Grant(e.ownerID, auth.CapabilityTenantAdmin)
	level, err = e.resolver.Resolve(ctx, e.ownerID, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelCompanyAdmin, level)

	// global admin wins over everything
	root := uuid.New().String()
	e.caps.Grant(root, auth.CapabilityGlobalAdmin)
	level, err = e.resolver.Resolve(ctx, root, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelGlobal, level)
}

// tenant.admin over a company the principal does not own falls through to
// the capability rules.
func TestResolver_TenantAdminOfOtherCompany(t *testing.T) {
	e := newResolverEnv(t)
	ctx := context.TODO()

	admin := uuid.New().String()
	e.caps.Grant(admin, auth.CapabilityTenantAdmin)

	level, err := e.resolver.Resolve(ctx, admin, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelMember, level)

	// with a read tag on top the fallthrough lands on VIEWER
	e.caps.Grant(admin, auth.CapabilityVersionRead)
	level, err = e.resolver.Resolve(ctx, admin, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelViewer, level)
}

func TestResolver_PortalMembershipGrantsViewer(t *testing.T) {
	e := newResolverEnv(t)
	ctx := context.TODO()

	member := uuid.New().String()
	employee := &model.Employee{
		ID:              uuid.New().String(),
		CompanyID:       e.companyID,
		EstablishmentID: e.establishmentID,
		PortalUserID:    &member,
	}
	assert.NoError(t, e.store.CreateEmployee(ctx, employee))

	level, err := e.resolver.Resolve(ctx, member, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelViewer, level)
}

func TestResolver_UnknownEstablishment(t *testing.T) {
	e := newResolverEnv(t)
	ctx := context.TODO()

	viewer := uuid.New().String()
	e.caps.Grant(viewer, auth.CapabilityDocumentRead)

	_, err := e.resolver.Resolve(ctx, viewer, uuid.New().String())
	assert.ErrorIs(t, err, auth.ErrEstablishmentNotFound)

	// the global admin shortcut does not consult the establishment at all
	root := uuid.New().String()
	e.caps.Grant(root, auth.CapabilityGlobalAdmin)
	level, err := e.resolver.Resolve(ctx, root, uuid.New().String())
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelGlobal, level)
}

func TestResolver_RequestScopeMemoization(t *testing.T) {
	e := newResolverEnv(t)

	member := uuid.New().String()
	employee := &model.Employee{
		ID:              uuid.New().String(),
		CompanyID:       e.companyID,
		EstablishmentID: e.establishmentID,
		PortalUserID:    &member,
	}
	assert.NoError(t, e.store.CreateEmployee(context.TODO(), employee))

	ctx := auth.WithRequestScope(context.TODO())
	level, err := e.resolver.Resolve(ctx, member, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelViewer, level)

	// within the scope the verdict is pinned even if the row goes away
	assert.NoError(t, tester.TestDB().Delete(employee).Error)

	level, err = e.resolver.Resolve(ctx, member, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelViewer, level)

	// a fresh scope sees the current state
	level, err = e.resolver.Resolve(auth.WithRequestScope(context.TODO()), member, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelMember, level)
}

// Tenancy coordinates are cached per process; moving an establishment to
// another company is invisible until the cache entry is dropped.
func TestResolver_InvalidateEstablishment(t *testing.T) {
	e := newResolverEnv(t)
	ctx := context.TODO()

	e.caps.Grant(e.ownerID, auth.CapabilityTenantAdmin)

	level, err := e.resolver.Resolve(ctx, e.ownerID, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelCompanyAdmin, level)

	other := &model.Company{
		ID:              uuid.New().String(),
		Name:            "Other Corp",
		CreatedByUserID: uuid.New().String(),
	}
	assert.NoError(t, e.store.CreateCompany(ctx, other))
	assert.NoError(t, tester.TestDB().
		Model(&model.Establishment{}).
		Where("id = ?", e.establishmentID).
		Update("company_id", other.ID).Error)

	// the stale cache entry still classifies the old owner as admin
	level, err = e.resolver.Resolve(ctx, e.ownerID, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelCompanyAdmin, level)

	assert.NoError(t, e.resolver.InvalidateEstablishment(ctx, e.establishmentID))

	level, err = e.resolver.Resolve(ctx, e.ownerID, e.establishmentID)
	assert.NoError(t, err)
	assert.Equal(t, auth.LevelMember, level)
}

func TestParseCapabilitySet(t *testing.T) {
	set := auth.ParseCapabilitySet([]string{
		"document.read",
		"document.version.create",
		"coffee.brew",
		"",
	})

	assert.Equal(t, 2, set.Cardinality())
	assert.True(t, set.Contains(auth.CapabilityDocumentRead))
	assert.True(t, set.Contains(auth.CapabilityVersionCreate))
}

func TestAccessLevelOrdering(t *testing.T) {
	assert.False(t, auth.LevelMember.CanRead())
	assert.False(t, auth.LevelMember.CanWrite())

	assert.True(t, auth.LevelViewer.CanRead())
	assert.False(t, auth.LevelViewer.CanWrite())

	for _, l := range []auth.AccessLevel{auth.LevelAssistant, auth.LevelCompanyAdmin, auth.LevelGlobal} {
		assert.True(t, l.CanRead())
		assert.True(t, l.CanWrite())
	}

	assert.Equal(t, "COMPANY_ADMIN", auth.LevelCompanyAdmin.String())
	assert.Equal(t, "MEMBER", auth.AccessLevel(-1).String())
}
