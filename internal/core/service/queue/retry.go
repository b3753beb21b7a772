package queue

import (
	"context"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"fmt"

	"github.com/google/uuid"
)

// Retry manually requeues a failed or cancelled item. The retry count moves
// forward (never back to zero), so the retry history survives manual
// intervention.
func (q *uploadQueue) Retry(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil {
		q.mu.Unlock()
		return domain.ErrItemNotFound
	}
	if item.Status != domain.UploadStatusError && item.Status != domain.UploadStatusCancelled {
		q.mu.Unlock()
		return fmt.Errorf("%w: cannot retry item in status %s", domain.ErrInvalidTransition, item.Status)
	}

	q.requeueLocked(item)
	snapshot := *item
	q.processLocked()
	q.mu.Unlock()

	q.persist(snapshot)
	q.publish(domain.EventTypeItemRetried, snapshot)
	return nil
}

// RetryAllFailed requeues every item settled in the error status
func (q *uploadQueue) RetryAllFailed(_ context.Context) error {
	q.mu.Lock()

	var requeued []domain.QueueItem
	for _, item := range q.items {
		if item.Status != domain.UploadStatusError {
			continue
		}
		q.requeueLocked(item)
		requeued = append(requeued, *item)
	}
	q.processLocked()
	q.mu.Unlock()

	for _, snapshot := range requeued {
		q.persist(snapshot)
		q.publish(domain.EventTypeItemRetried, snapshot)
	}
	return nil
}

// ResolveDuplicate applies the caller's skip-or-replace decision to an item
// parked in the duplicate status
func (q *uploadQueue) ResolveDuplicate(ctx context.Context, id uuid.UUID, resolution port.DuplicateResolution) error {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil {
		q.mu.Unlock()
		return domain.ErrItemNotFound
	}
	if item.Status != domain.UploadStatusDuplicate {
		q.mu.Unlock()
		return fmt.Errorf("%w: item %s is not a duplicate", domain.ErrInvalidTransition, id)
	}

	switch resolution {
	case port.DuplicateResolutionSkip:
		q.removeLocked(id)
		q.mu.Unlock()
		return q.deleteFromStore(ctx, id)

	case port.DuplicateResolutionReplace:
		item.Status = domain.UploadStatusQueued
		snapshot := *item
		q.processLocked()
		q.mu.Unlock()

		q.persist(snapshot)
		q.publish(domain.EventTypeItemQueued, snapshot)
		return nil

	default:
		q.mu.Unlock()
		return fmt.Errorf("unknown duplicate resolution %q", resolution)
	}
}

func (q *uploadQueue) requeueLocked(item *domain.QueueItem) {
	item.RetryCount++
	item.Status = domain.UploadStatusQueued
	item.Error = ""
	item.Progress = 0

	if timer, ok := q.timers[item.ID]; ok {
		timer.Stop()
		delete(q.timers, item.ID)
	}
}
