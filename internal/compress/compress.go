// Package compress provides the at-rest codecs for the blob store.
package compress

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Compress encodes blobs before they hit disk and decodes them on the way
// back. Encode and Decode must round-trip byte for byte.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ForName returns the codec for a configuration value. Anything other than
// "gzip" means store blobs as-is.
func ForName(name string) Compress {
	if name == "gzip" {
		return NewGZip()
	}
	return NewNop()
}

type GZip struct{}

var _ Compress = GZip{}

func NewGZip() GZip {
	return GZip{}
}

func (g GZip) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g GZip) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Nop stores blobs uncompressed.
type Nop struct{}

var _ Compress = Nop{}

func NewNop() Nop {
	return Nop{}
}

func (n Nop) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (n Nop) Decode(data []byte) ([]byte, error) {
	return data, nil
}
