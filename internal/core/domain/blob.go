package domain

import "io"

// BlobSource opens a fresh reader over an item's content. Hashing and
// uploading each open their own reader, so consuming one never starves the
// other. Size must match the number of bytes the reader yields.
type BlobSource interface {
	Open() (io.ReadSeekCloser, error)
	Size() int64
}
