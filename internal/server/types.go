package server

import (
	"time"

	"github.com/emrgen/compliance/internal/model"
)

type documentResponse struct {
	ID               string     `json:"id"`
	EstablishmentID  string     `json:"establishment_id"`
	Kind             string     `json:"kind"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	CurrentVersionID *string    `json:"current_version_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

func newDocumentResponse(doc *model.Document) documentResponse {
	return documentResponse{
		ID:               doc.ID,
		EstablishmentID:  doc.EstablishmentID,
		Kind:             string(doc.Kind),
		Name:             doc.Name,
		Description:      doc.Description,
		Status:           string(doc.Status),
		CurrentVersionID: doc.CurrentVersionID,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		DeletedAt:        doc.DeletedAt,
	}
}

type versionResponse struct {
	ID                string     `json:"id"`
	DocumentID        string     `json:"document_id"`
	VersionNumber     int64      `json:"version_number"`
	Status            string     `json:"status"`
	FileName          string     `json:"file_name"`
	Checksum          string     `json:"checksum"`
	Size              int64      `json:"size"`
	ChangeDescription string     `json:"change_description,omitempty"`
	UploadedBy        string     `json:"uploaded_by"`
	ActivatedAt       *time.Time `json:"activated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func newVersionResponse(version *model.DocumentVersion) versionResponse {
	return versionResponse{
		ID:                version.ID,
		DocumentID:        version.DocumentID,
		VersionNumber:     version.VersionNumber,
		Status:            string(version.Status),
		FileName:          version.FileName,
		Checksum:          version.Checksum,
		Size:              version.Size,
		ChangeDescription: version.ChangeDescription,
		UploadedBy:        version.UploadedByUserID,
		ActivatedAt:       version.ActivatedAt,
		CreatedAt:         version.CreatedAt,
	}
}

type relationResponse struct {
	ID             string    `json:"id"`
	FromDocumentID string    `json:"from_document_id"`
	ToDocumentID   string    `json:"to_document_id"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

func newRelationResponse(relation *model.DocumentRelation) relationResponse {
	return relationResponse{
		ID:             relation.ID,
		FromDocumentID: relation.FromDocumentID,
		ToDocumentID:   relation.ToDocumentID,
		Type:           string(relation.Type),
		CreatedAt:      relation.CreatedAt,
	}
}
