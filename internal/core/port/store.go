package port

import (
	"context"
	"fieldsync/internal/core/domain"

	"github.com/google/uuid"
)

// QueueStore is an interface to define durable queue item persistence.
// It is the system of record across restarts; failed writes are surfaced,
// never swallowed.
type QueueStore interface {
	Save(ctx context.Context, item domain.QueueItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.QueueItem, error)
	FindByProject(ctx context.Context, projectID string) ([]domain.QueueItem, error)
	FindAll(ctx context.Context) ([]domain.QueueItem, error)
	// FindPending returns items with status queued or error whose retry
	// count has not exceeded maxRetries, oldest first.
	FindPending(ctx context.Context, maxRetries int) ([]domain.QueueItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UploadStatus, uploadErr string) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error
	DeleteCompleted(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
}
