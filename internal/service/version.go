package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/emrgen/compliance/internal/audit"
	"github.com/emrgen/compliance/internal/auth"
	"github.com/emrgen/compliance/internal/blob"
	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FileMode selects how a version blob is consumed; both are read-gated and
// audited separately.
type FileMode string

const (
	FileModeView     FileMode = "view"
	FileModeDownload FileMode = "download"
)

// NewVersionService creates a new VersionService.
func NewVersionService(st store.Store, resolver *auth.Resolver, blobs blob.Store, sink audit.Sink) *VersionService {
	return &VersionService{
		store: st,
		gate:  accessGate{resolver: resolver},
		blobs: blobs,
		audit: sink,
	}
}

// VersionService is the version lifecycle engine. Every transition that
// touches more than one row runs in a single transaction serialized on the
// document row, so at most one non-deleted version of a document is ever
// PUBLISHED.
type VersionService struct {
	store store.Store
	gate  accessGate
	blobs blob.Store
	audit audit.Sink
}

type CreateVersionInput struct {
	FileName          string
	ChangeDescription string
	Content           io.Reader
}

// ListVersions lists the non-deleted versions of a document, newest first.
func (v *VersionService) ListVersions(ctx context.Context, principalID, documentID string) ([]*model.DocumentVersion, error) {
	doc, err := loadDocument(ctx, v.store, documentID)
	if err != nil {
		return nil, err
	}

	if _, err := v.gate.requireRead(ctx, principalID, doc.EstablishmentID); err != nil {
		return nil, err
	}

	return v.store.ListVersions(ctx, doc.ID)
}

// CreateVersion uploads a new version. The version starts ARCHIVED with number
// one-plus-max and does not change the document's current version. A failed
// blob write erases the just-inserted row so no version ever points at a
// missing blob.
func (v *VersionService) CreateVersion(ctx context.Context, principalID, documentID string, input CreateVersionInput) (*model.DocumentVersion, error) {
	if input.FileName == "" || input.Content == nil {
		return nil, ErrInvalidArgument
	}

	doc, err := loadDocument(ctx, v.store, documentID)
	if err != nil {
		return nil, err
	}

	level, err := v.gate.requireWrite(ctx, principalID, doc.EstablishmentID)
	if err != nil {
		return nil, err
	}

	establishment, err := v.store.GetEstablishment(ctx, doc.EstablishmentID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	content, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrStorage, err)
	}
	sum := sha256.Sum256(content)

	version := &model.DocumentVersion{
		ID:                uuid.New().String(),
		DocumentID:        doc.ID,
		Status:            model.VersionStatusArchived,
		FileName:          input.FileName,
		Checksum:          hex.EncodeToString(sum[:]),
		Size:              int64(len(content)),
		UploadedByUserID:  principalID,
		ChangeDescription: input.ChangeDescription,
	}

	err = v.store.Transaction(ctx, func(tx store.Store) error {
		locked, err := tx.GetDocumentForUpdate(ctx, doc.ID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if locked.Deleted() {
			return ErrNotFound
		}

		max, err := tx.MaxVersionNumber(ctx, locked.ID)
		if err != nil {
			return err
		}

		version.VersionNumber = max + 1
		version.StoragePath = blob.VersionPath(
			establishment.CompanyID, establishment.ID, locked.ID, version.VersionNumber, input.FileName)

		return tx.CreateVersion(ctx, version)
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	if err := v.blobs.Write(ctx, version.StoragePath, bytes.NewReader(content)); err != nil {
		// compensate: the row must not survive without its blob
		if derr := v.store.EraseVersion(ctx, version.ID); derr != nil {
			logrus.Errorf("failed to erase version %s after blob write failure: %v", version.ID, derr)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	v.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  doc.ID,
		VersionID:   &version.ID,
		Action:      audit.ActionUpload,
		AccessLevel: level.String(),
	})

	return version, nil
}

// Activate publishes a version: every sibling is demoted to ARCHIVED, the
// target becomes PUBLISHED and the document turns ACTIVE pointing at it, all
// in one transaction. Activating the already-current version succeeds and
// refreshes ActivatedAt.
func (v *VersionService) Activate(ctx context.Context, principalID, documentID, versionID string) (*model.DocumentVersion, error) {
	doc, err := loadDocument(ctx, v.store, documentID)
	if err != nil {
		return nil, err
	}

	level, err := v.gate.requireWrite(ctx, principalID, doc.EstablishmentID)
	if err != nil {
		return nil, err
	}

	var out *model.DocumentVersion
	err = v.store.Transaction(ctx, func(tx store.Store) error {
		locked, err := tx.GetDocumentForUpdate(ctx, doc.ID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if locked.Deleted() {
			return ErrNotFound
		}

		version, err := tx.GetVersion(ctx, versionID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if version.Deleted() {
			return ErrNotFound
		}
		if version.DocumentID != locked.ID {
			return ErrMismatch
		}

		if err := tx.ArchiveSiblingVersions(ctx, locked.ID, version.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		version.Status = model.VersionStatusPublished
		version.ActivatedAt = &now
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		locked.Status = model.DocumentStatusActive
		locked.CurrentVersionID = &version.ID
		if err := tx.UpdateDocument(ctx, locked); err != nil {
			return err
		}

		out = version
		return nil
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	logrus.Infof("document %s activated version %d", doc.ID, out.VersionNumber)
	v.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  doc.ID,
		VersionID:   &out.ID,
		Action:      audit.ActionActivate,
		AccessLevel: level.String(),
	})

	return out, nil
}

// Archive demotes a version to ARCHIVED. Archiving the current version also
// clears the document's pointer and turns it INACTIVE, in the same
// transaction.
func (v *VersionService) Archive(ctx context.Context, principalID, documentID, versionID string) (*model.DocumentVersion, error) {
	doc, err := loadDocument(ctx, v.store, documentID)
	if err != nil {
		return nil, err
	}

	level, err := v.gate.requireWrite(ctx, principalID, doc.EstablishmentID)
	if err != nil {
		return nil, err
	}

	var out *model.DocumentVersion
	err = v.store.Transaction(ctx, func(tx store.Store) error {
		locked, err := tx.GetDocumentForUpdate(ctx, doc.ID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if locked.Deleted() {
			return ErrNotFound
		}

		version, err := tx.GetVersion(ctx, versionID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if version.Deleted() {
			return ErrNotFound
		}
		if version.DocumentID != locked.ID {
			return ErrMismatch
		}

		version.Status = model.VersionStatusArchived
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		if locked.CurrentVersionID != nil && *locked.CurrentVersionID == version.ID {
			locked.CurrentVersionID = nil
			locked.Status = model.DocumentStatusInactive
			if err := tx.UpdateDocument(ctx, locked); err != nil {
				return err
			}
		}

		out = version
		return nil
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	v.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  doc.ID,
		VersionID:   &out.ID,
		Action:      audit.ActionArchive,
		AccessLevel: level.String(),
	})

	return out, nil
}

// UpdateVersion updates the free-text change description. Version and
// document state are untouched.
func (v *VersionService) UpdateVersion(ctx context.Context, principalID, documentID, versionID, changeDescription string) (*model.DocumentVersion, error) {
	doc, err := loadDocument(ctx, v.store, documentID)
	if err != nil {
		return nil, err
	}

	if _, err := v.gate.requireWrite(ctx, principalID, doc.EstablishmentID); err != nil {
		return nil, err
	}

	version, err := v.loadVersion(ctx, doc.ID, versionID)
	if err != nil {
		return nil, err
	}

	version.ChangeDescription = changeDescription
	if err := v.store.UpdateVersion(ctx, version); err != nil {
		return nil, err
	}

	return version, nil
}

// OpenFile opens the blob of a version for view or download and records the
// access.
func (v *VersionService) OpenFile(ctx context.Context, principalID, documentID, versionID string, mode FileMode) (io.ReadCloser, *model.DocumentVersion, error) {
	doc, err := loadDocument(ctx, v.store, documentID)
	if err != nil {
		return nil, nil, err
	}

	level, err := v.gate.requireRead(ctx, principalID, doc.EstablishmentID)
	if err != nil {
		return nil, nil, err
	}

	version, err := v.loadVersion(ctx, doc.ID, versionID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := v.blobs.Read(ctx, version.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	action := audit.ActionView
	if mode == FileModeDownload {
		action = audit.ActionDownload
	}
	v.audit.Record(ctx, audit.Event{
		PrincipalID: principalID,
		DocumentID:  doc.ID,
		VersionID:   &version.ID,
		Action:      action,
		AccessLevel: level.String(),
	})

	return rc, version, nil
}

func (v *VersionService) loadVersion(ctx context.Context, documentID, versionID string) (*model.DocumentVersion, error) {
	version, err := v.store.GetVersion(ctx, versionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if version.Deleted() {
		return nil, ErrNotFound
	}
	if version.DocumentID != documentID {
		return nil, ErrMismatch
	}
	return version, nil
}
