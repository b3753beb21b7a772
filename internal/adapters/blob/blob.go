package blob

import (
	"bytes"
	"fieldsync/internal/core/domain"
	"fmt"
	"io"
	"os"
)

// FileSource is a domain.BlobSource backed by a file on disk
type FileSource struct {
	path string
	size int64
}

// NewFileSource stats the file and returns a source over it
func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileSource{path: path, size: info.Size()}, nil
}

func (f *FileSource) Open() (io.ReadSeekCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	return file, nil
}

func (f *FileSource) Size() int64 { return f.size }

// Path returns the backing file path
func (f *FileSource) Path() string { return f.path }

// BytesSource is an in-memory domain.BlobSource
type BytesSource struct {
	data []byte
}

func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (b *BytesSource) Open() (io.ReadSeekCloser, error) {
	return nopCloser{bytes.NewReader(b.data)}, nil
}

func (b *BytesSource) Size() int64 { return int64(len(b.data)) }

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

var _ domain.BlobSource = (*FileSource)(nil)
var _ domain.BlobSource = (*BytesSource)(nil)
