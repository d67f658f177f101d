package blob

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/emrgen/compliance/internal/compress"
	"github.com/stretchr/testify/assert"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.TODO()
	fs := NewFilesystem(t.TempDir(), compress.NewGZip())

	path := VersionPath("c1", "e1", "d1", 1, "report.pdf")
	assert.Equal(t, "c1/e1/d1/1__report.pdf", path)

	assert.NoError(t, fs.Write(ctx, path, strings.NewReader("inspection evidence")))

	rc, err := fs.Read(ctx, path)
	assert.NoError(t, err)
	data, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.NoError(t, rc.Close())
	assert.Equal(t, "inspection evidence", string(data))

	// overwrite replaces content
	assert.NoError(t, fs.Write(ctx, path, strings.NewReader("corrected evidence")))
	rc, err = fs.Read(ctx, path)
	assert.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "corrected evidence", string(data))

	assert.NoError(t, fs.Delete(ctx, path))
	_, err = fs.Read(ctx, path)
	assert.Error(t, err)

	// delete is idempotent
	assert.NoError(t, fs.Delete(ctx, path))
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	ctx := context.TODO()
	fs := NewFilesystem(t.TempDir(), compress.NewNop())

	err := fs.Write(ctx, "../escape", strings.NewReader("x"))
	assert.ErrorIs(t, err, os.ErrPermission)

	_, err = fs.Read(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, os.ErrPermission)
}
