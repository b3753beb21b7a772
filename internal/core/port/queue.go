package port

import (
	"context"
	"fieldsync/internal/core/domain"

	"github.com/google/uuid"
)

// Submission is the caller-provided description of one file to enqueue
type Submission struct {
	Filename    string
	ContentType string
	ProjectID   string
	CategoryID  *string
	Title       *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	// LocalPath is recorded for post-restart resynchronization.
	LocalPath string
	Blob      domain.BlobSource
}

// DuplicateResolution is the caller's decision for an item parked in the
// duplicate status.
type DuplicateResolution string

const (
	DuplicateResolutionSkip    DuplicateResolution = "skip"
	DuplicateResolutionReplace DuplicateResolution = "replace"
)

// QueueService is an interface to define the upload queue engine
type QueueService interface {
	Add(ctx context.Context, submissions []Submission) error
	Remove(ctx context.Context, id uuid.UUID) error
	Retry(ctx context.Context, id uuid.UUID) error
	RetryAllFailed(ctx context.Context) error
	Cancel(ctx context.Context, id uuid.UUID) error
	CancelAll(ctx context.Context) error
	ResolveDuplicate(ctx context.Context, id uuid.UUID, resolution DuplicateResolution) error
	ClearCompleted(ctx context.Context) error
	ClearErrors(ctx context.Context) error
	ClearAll(ctx context.Context) error
	Pause()
	Resume()

	Items() []domain.QueueItem
	Item(id uuid.UUID) (*domain.QueueItem, error)
	Stats() domain.QueueStats
	IsProcessing() bool
	IsPaused() bool

	Close() error
}

// DedupeService is an interface to define duplicate detection over content
// hashes. live is the caller's current item snapshot, scanned when the hash
// is not yet in the known table.
type DedupeService interface {
	Check(hash string, live []domain.QueueItem) domain.DuplicateMatch
	Register(hash string, id uuid.UUID, filename string)
	Enabled() bool
}
