package port

import (
	"context"
	"fieldsync/internal/core/domain"

	"github.com/google/uuid"
)

// UploadRequest carries one item's content and context fields to the remote end
type UploadRequest struct {
	ItemID      uuid.UUID
	Filename    string
	ContentType string
	ProjectID   string
	CategoryID  *string
	Title       *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Blob        domain.BlobSource
}

// ProgressFunc receives byte-level transfer progress. total is the declared
// size; sent is monotonic for a given transfer.
type ProgressFunc func(sent, total int64)

// Uploader is an interface to define a single-item transfer with progress
// reporting. Cancelling ctx must abort the transfer promptly.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest, progress ProgressFunc) (*domain.UploadedPhoto, error)
}
