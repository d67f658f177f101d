package model

import "time"

// RelationType is the kind of edge between two documents.
type RelationType string

const (
	RelationTypeEvidence   RelationType = "EVIDENCE"
	RelationTypeReference  RelationType = "REFERENCE"
	RelationTypeSupersedes RelationType = "SUPERSEDES"
)

// DocumentRelation is a directed typed edge between two documents of the same
// establishment. An edge of a given type is unique between a pair regardless
// of direction.
type DocumentRelation struct {
	ID             string       `gorm:"primaryKey;uuid;not null"`
	FromDocumentID string       `gorm:"uuid;not null;index:idx_relations_from"`
	ToDocumentID   string       `gorm:"uuid;not null;index:idx_relations_to"`
	Type           RelationType `gorm:"not null"`
	CreatedByUserID string      `gorm:"uuid;not null"`
	CreatedAt      time.Time
}

func (DocumentRelation) TableName() string {
	return "document_relations"
}

// References reports whether the edge touches the given document on either end.
func (r *DocumentRelation) References(documentID string) bool {
	return r.FromDocumentID == documentID || r.ToDocumentID == documentID
}
