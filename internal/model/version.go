package model

import "time"

// VersionStatus is the lifecycle state of a document version. Every version
// starts ARCHIVED; at most one non-deleted version of a document is PUBLISHED.
type VersionStatus string

const (
	VersionStatusArchived  VersionStatus = "ARCHIVED"
	VersionStatusPublished VersionStatus = "PUBLISHED"
	VersionStatusDeleted   VersionStatus = "DELETED"
)

// DocumentVersion is an immutable content snapshot of a document. Numbers are
// assigned one-plus-max per document and never reused.
type DocumentVersion struct {
	ID               string `gorm:"primaryKey;uuid;not null"`
	DocumentID       string `gorm:"uuid;not null;index;uniqueIndex:idx_versions_document_number,priority:1"`
	VersionNumber    int64  `gorm:"not null;uniqueIndex:idx_versions_document_number,priority:2"`
	Status           VersionStatus `gorm:"not null;default:ARCHIVED;index"`
	FileName         string        `gorm:"not null"`
	Checksum         string        `gorm:"not null"`
	Size             int64         `gorm:"not null"`
	StoragePath      string        `gorm:"not null"`
	UploadedByUserID string        `gorm:"uuid;not null"`
	ChangeDescription string
	ActivatedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}

func (v *DocumentVersion) Deleted() bool {
	return v.Status == VersionStatusDeleted
}
