package store

import (
	"context"
	"time"

	"github.com/emrgen/compliance/internal/model"
)

// Store is the persistence boundary for the compliance core. Transaction runs
// f against a store bound to a single database transaction; any error rolls
// the whole unit back.
type Store interface {
	DocumentStore
	VersionStore
	RelationStore
	TenancyStore
	AccessLogStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type DocumentStore interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// GetDocumentForUpdate retrieves a document and, where the dialect
	// supports it, locks the row until the surrounding transaction ends.
	GetDocumentForUpdate(ctx context.Context, id string) (*model.Document, error)
	// ListDocuments retrieves the non-deleted documents of an establishment.
	ListDocuments(ctx context.Context, establishmentID string) ([]*model.Document, int64, error)
	// UpdateDocument saves a document.
	UpdateDocument(ctx context.Context, doc *model.Document) error
}

type VersionStore interface {
	// CreateVersion creates a new document version.
	CreateVersion(ctx context.Context, version *model.DocumentVersion) error
	// GetVersion retrieves a version by ID.
	GetVersion(ctx context.Context, id string) (*model.DocumentVersion, error)
	// ListVersions retrieves the non-deleted versions of a document, newest first.
	ListVersions(ctx context.Context, documentID string) ([]*model.DocumentVersion, error)
	// UpdateVersion saves a version.
	UpdateVersion(ctx context.Context, version *model.DocumentVersion) error
	// EraseVersion hard-deletes a version row. Used only to compensate a
	// failed blob write during upload.
	EraseVersion(ctx context.Context, id string) error
	// MaxVersionNumber returns the highest version number assigned to the
	// document, zero when it has none.
	MaxVersionNumber(ctx context.Context, documentID string) (int64, error)
	// ArchiveSiblingVersions demotes every published version of the document
	// except the given one.
	ArchiveSiblingVersions(ctx context.Context, documentID, exceptID string) error
	// CountPublishedVersions counts non-deleted published versions of a document.
	CountPublishedVersions(ctx context.Context, documentID string) (int64, error)
}

type RelationStore interface {
	// CreateRelation creates a new relation edge.
	CreateRelation(ctx context.Context, relation *model.DocumentRelation) error
	// GetRelation retrieves a relation by ID.
	GetRelation(ctx context.Context, id string) (*model.DocumentRelation, error)
	// ListRelationsFrom lists edges where the document is the source.
	ListRelationsFrom(ctx context.Context, documentID string, relType *model.RelationType) ([]*model.DocumentRelation, error)
	// ListRelationsTo lists edges where the document is the target.
	ListRelationsTo(ctx context.Context, documentID string, relType *model.RelationType) ([]*model.DocumentRelation, error)
	// RelationExists reports whether an edge of the type exists between the
	// pair in either direction.
	RelationExists(ctx context.Context, docA, docB string, relType model.RelationType) (bool, error)
	// DeleteRelation removes a relation edge.
	DeleteRelation(ctx context.Context, id string) error
}

type TenancyStore interface {
	// CreateCompany creates a company.
	CreateCompany(ctx context.Context, company *model.Company) error
	// GetCompany retrieves a company by ID.
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	// CreateEstablishment creates an establishment.
	CreateEstablishment(ctx context.Context, establishment *model.Establishment) error
	// GetEstablishment retrieves an establishment by ID.
	GetEstablishment(ctx context.Context, id string) (*model.Establishment, error)
	// CreateEmployee creates an employee record.
	CreateEmployee(ctx context.Context, employee *model.Employee) error
	// HasPortalMembership reports whether the principal is linked as a portal
	// employee of the exact (company, establishment) pair.
	HasPortalMembership(ctx context.Context, principalID, companyID, establishmentID string) (bool, error)
	// ListCapabilities returns the raw capability tags granted to a principal.
	ListCapabilities(ctx context.Context, principalID string) ([]string, error)
}

type AccessLogStore interface {
	// CreateAccessLogEntry appends an access log row.
	CreateAccessLogEntry(ctx context.Context, entry *model.AccessLogEntry) error
	// DeleteAccessLogsBefore removes access log rows older than the cutoff
	// and returns how many were removed.
	DeleteAccessLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
