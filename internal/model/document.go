package model

import "time"

// DocumentStatus is the lifecycle state of a document. Deletion is terminal;
// deleted documents keep their versions for audit.
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "DRAFT"
	DocumentStatusActive   DocumentStatus = "ACTIVE"
	DocumentStatusInactive DocumentStatus = "INACTIVE"
	DocumentStatusDeleted  DocumentStatus = "DELETED"
)

// DocumentKind classifies what a document is used for within an establishment.
type DocumentKind string

const (
	DocumentKindMain     DocumentKind = "MAIN"
	DocumentKindEvidence DocumentKind = "EVIDENCE"
	DocumentKindOther    DocumentKind = "OTHER"
)

// Document belongs to exactly one establishment. While ACTIVE it points at the
// single PUBLISHED version through CurrentVersionID.
type Document struct {
	ID              string `gorm:"primaryKey;uuid;not null"`
	EstablishmentID string `gorm:"uuid;not null;index"`
	Kind            DocumentKind   `gorm:"not null;default:MAIN"`
	Name            string         `gorm:"not null"`
	Description     string
	Status          DocumentStatus `gorm:"not null;default:DRAFT;index"`
	CurrentVersionID *string       `gorm:"uuid"`
	CreatedByUserID string         `gorm:"uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

func (Document) TableName() string {
	return "documents"
}

// Deleted reports whether the document reached its terminal state.
func (d *Document) Deleted() bool {
	return d.Status == DocumentStatusDeleted
}
