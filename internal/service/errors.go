package service

import "errors"

var (
	// ErrNotFound is returned when the referenced document, version or
	// establishment does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is returned when the resolved access level does not permit
	// the requested operation.
	ErrForbidden = errors.New("access denied")
	// ErrMismatch is returned when the referenced child does not belong to
	// the stated parent, so clients can tell "wrong document" from "does not
	// exist".
	ErrMismatch = errors.New("resource does not belong to the referenced parent")
	// ErrSelfRelation is returned when a relation would loop a document to itself.
	ErrSelfRelation = errors.New("document cannot relate to itself")
	// ErrCrossScope is returned when a relation would span establishments.
	ErrCrossScope = errors.New("documents belong to different establishments")
	// ErrDuplicateRelation is returned when an edge of the same type already
	// exists between the pair in either direction.
	ErrDuplicateRelation = errors.New("relation of this type already exists between the documents")
	// ErrConflict is returned when a lifecycle transition lost a concurrent
	// race; the caller may retry.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrStorage is returned when the blob store failed; any partially
	// created version row has been cleaned up.
	ErrStorage = errors.New("blob storage failure")
	// ErrInvalidArgument is returned for malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
)
