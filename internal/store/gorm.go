package store

import (
	"context"
	"time"

	"github.com/emrgen/compliance/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocumentForUpdate is the serialization point for lifecycle transitions.
// On postgres the row is locked until the transaction commits; sqlite
// serializes writers at the database level already.
func (g *GormStore) GetDocumentForUpdate(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	tx := g.db.WithContext(ctx)
	if g.db.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := tx.Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *GormStore) ListDocuments(ctx context.Context, establishmentID string) ([]*model.Document, int64, error) {
	var docs []*model.Document
	q := g.db.WithContext(ctx).
		Where("establishment_id = ? AND status <> ?", establishmentID, model.DocumentStatusDeleted)
	err := q.Order("created_at desc").Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, int64(len(docs)), nil
}

func (g *GormStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Save(doc).Error
}

func (g *GormStore) CreateVersion(ctx context.Context, version *model.DocumentVersion) error {
	return g.db.WithContext(ctx).Create(version).Error
}

func (g *GormStore) GetVersion(ctx context.Context, id string) (*model.DocumentVersion, error) {
	var version model.DocumentVersion
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (g *GormStore) ListVersions(ctx context.Context, documentID string) ([]*model.DocumentVersion, error) {
	var versions []*model.DocumentVersion
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND status <> ?", documentID, model.VersionStatusDeleted).
		Order("version_number desc").
		Find(&versions).Error
	return versions, err
}

func (g *GormStore) UpdateVersion(ctx context.Context, version *model.DocumentVersion) error {
	return g.db.WithContext(ctx).Save(version).Error
}

func (g *GormStore) EraseVersion(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DocumentVersion{}).Error
}

func (g *GormStore) MaxVersionNumber(ctx context.Context, documentID string) (int64, error) {
	var max int64
	err := g.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	return max, err
}

func (g *GormStore) ArchiveSiblingVersions(ctx context.Context, documentID, exceptID string) error {
	return g.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Where("document_id = ? AND id <> ? AND status = ?", documentID, exceptID, model.VersionStatusPublished).
		Update("status", model.VersionStatusArchived).Error
}

func (g *GormStore) CountPublishedVersions(ctx context.Context, documentID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.DocumentVersion{}).
		Where("document_id = ? AND status = ?", documentID, model.VersionStatusPublished).
		Count(&count).Error
	return count, err
}

func (g *GormStore) CreateRelation(ctx context.Context, relation *model.DocumentRelation) error {
	return g.db.WithContext(ctx).Create(relation).Error
}

func (g *GormStore) GetRelation(ctx context.Context, id string) (*model.DocumentRelation, error) {
	var relation model.DocumentRelation
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&relation).Error
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

func (g *GormStore) ListRelationsFrom(ctx context.Context, documentID string, relType *model.RelationType) ([]*model.DocumentRelation, error) {
	var relations []*model.DocumentRelation
	q := g.db.WithContext(ctx).Where("from_document_id = ?", documentID)
	if relType != nil {
		q = q.Where("type = ?", *relType)
	}
	err := q.Order("created_at desc").Find(&relations).Error
	return relations, err
}

func (g *GormStore) ListRelationsTo(ctx context.Context, documentID string, relType *model.RelationType) ([]*model.DocumentRelation, error) {
	var relations []*model.DocumentRelation
	q := g.db.WithContext(ctx).Where("to_document_id = ?", documentID)
	if relType != nil {
		q = q.Where("type = ?", *relType)
	}
	err := q.Order("created_at desc").Find(&relations).Error
	return relations, err
}

func (g *GormStore) RelationExists(ctx context.Context, docA, docB string, relType model.RelationType) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.DocumentRelation{}).
		Where("type = ?", relType).
		Where(
			g.db.Where("from_document_id = ? AND to_document_id = ?", docA, docB).
				Or("from_document_id = ? AND to_document_id = ?", docB, docA),
		).
		Count(&count).Error
	return count > 0, err
}

func (g *GormStore) DeleteRelation(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DocumentRelation{}).Error
}

func (g *GormStore) CreateCompany(ctx context.Context, company *model.Company) error {
	return g.db.WithContext(ctx).Create(company).Error
}

func (g *GormStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (g *GormStore) CreateEstablishment(ctx context.Context, establishment *model.Establishment) error {
	return g.db.WithContext(ctx).Create(establishment).Error
}

func (g *GormStore) GetEstablishment(ctx context.Context, id string) (*model.Establishment, error) {
	var establishment model.Establishment
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&establishment).Error
	if err != nil {
		return nil, err
	}
	return &establishment, nil
}

func (g *GormStore) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	return g.db.WithContext(ctx).Create(employee).Error
}

func (g *GormStore) HasPortalMembership(ctx context.Context, principalID, companyID, establishmentID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("portal_user_id = ? AND company_id = ? AND establishment_id = ?", principalID, companyID, establishmentID).
		Count(&count).Error
	return count > 0, err
}

func (g *GormStore) ListCapabilities(ctx context.Context, principalID string) ([]string, error) {
	var tags []string
	err := g.db.WithContext(ctx).
		Model(&model.PrincipalCapability{}).
		Where("principal_id = ?", principalID).
		Pluck("capability", &tags).Error
	return tags, err
}

func (g *GormStore) CreateAccessLogEntry(ctx context.Context, entry *model.AccessLogEntry) error {
	return g.db.WithContext(ctx).Create(entry).Error
}

func (g *GormStore) DeleteAccessLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.AccessLogEntry{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
