package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fieldsync/internal/core/domain"
	"fmt"
	"io"
)

const (
	// sampleSize is how much of the head and the tail the quick mode reads.
	sampleSize = 64 * 1024
	// quickThreshold is the minimum size for quick fingerprinting. Below it
	// the full content is hashed. Two distinct files sharing head, tail and
	// length collide in quick mode; the threshold trades that false-negative
	// risk against hashing cost on large captures.
	quickThreshold = 2 * sampleSize
)

// SHA256 is a content fingerprinter producing lowercase hex digests
type SHA256 struct {
	quick bool
}

// New returns a full-content fingerprinter
func New() *SHA256 {
	return &SHA256{}
}

// NewQuick returns a fingerprinter that samples head + tail + length for
// inputs of at least 128KiB and falls back to full hashing below that
func NewQuick() *SHA256 {
	return &SHA256{quick: true}
}

// Hash fingerprints the blob without consuming it; callers can still open
// and upload the same bytes afterwards.
func (h *SHA256) Hash(ctx context.Context, blob domain.BlobSource) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r, err := blob.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open blob for hashing: %w", err)
	}
	defer r.Close()

	if h.quick && blob.Size() >= quickThreshold {
		return quickDigest(r, blob.Size())
	}
	return fullDigest(r)
}

func fullDigest(r io.Reader) (string, error) {
	digest := sha256.New()
	if _, err := io.Copy(digest, r); err != nil {
		return "", fmt.Errorf("failed to read blob: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

func quickDigest(r io.ReadSeeker, size int64) (string, error) {
	digest := sha256.New()

	if _, err := io.CopyN(digest, r, sampleSize); err != nil {
		return "", fmt.Errorf("failed to read blob head: %w", err)
	}

	if _, err := r.Seek(-sampleSize, io.SeekEnd); err != nil {
		return "", fmt.Errorf("failed to seek to blob tail: %w", err)
	}
	if _, err := io.CopyN(digest, r, sampleSize); err != nil {
		return "", fmt.Errorf("failed to read blob tail: %w", err)
	}

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(size))
	digest.Write(length[:])

	return hex.EncodeToString(digest.Sum(nil)), nil
}
