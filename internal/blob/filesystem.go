package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emrgen/compliance/internal/compress"
)

var _ Store = (*Filesystem)(nil)

// Filesystem stores blobs under a root directory, optionally compressed at
// rest. Paths are sanitized against traversal outside the root.
type Filesystem struct {
	root     string
	compress compress.Compress
}

func NewFilesystem(root string, compress compress.Compress) *Filesystem {
	return &Filesystem{
		root:     root,
		compress: compress,
	}
}

func (f *Filesystem) Write(ctx context.Context, path string, r io.Reader) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	encoded, err := f.compress.Encode(data)
	if err != nil {
		return err
	}

	// write to a temp file first so a crashed write never leaves a partial
	// blob at the final path
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), full)
}

func (f *Filesystem) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	encoded, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}

	data, err := f.compress.Decode(encoded)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *Filesystem) Delete(ctx context.Context, path string) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *Filesystem) resolve(path string) (string, error) {
	full := filepath.Join(f.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Clean(f.root)+string(os.PathSeparator)) {
		return "", os.ErrPermission
	}
	return full, nil
}
