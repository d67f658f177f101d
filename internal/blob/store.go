package blob

import (
	"context"
	"fmt"
	"io"
)

// Store is an opaque blob store keyed by path. The compliance core never
// inspects blob content beyond checksumming on upload.
type Store interface {
	// Write stores the blob at the given path, replacing any previous content.
	Write(ctx context.Context, path string, r io.Reader) error
	// Read opens the blob at the given path.
	Read(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the blob at the given path.
	Delete(ctx context.Context, path string) error
}

// VersionPath is the deterministic storage locator of a version blob:
// {company}/{establishment}/{document}/{versionNumber}__{filename}.
func VersionPath(companyID, establishmentID, documentID string, versionNumber int64, fileName string) string {
	return fmt.Sprintf("%s/%s/%s/%d__%s", companyID, establishmentID, documentID, versionNumber, fileName)
}
