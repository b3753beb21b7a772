package queue

import (
	"context"
	"errors"
	"fieldsync/internal/core/domain"
	"fmt"

	"github.com/google/uuid"
)

// Remove deletes one item from the queue and the store, aborting its
// transfer first when in flight
func (q *uploadQueue) Remove(ctx context.Context, id uuid.UUID) error {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil {
		q.mu.Unlock()
		return domain.ErrItemNotFound
	}
	if cancel, ok := q.cancels[id]; ok {
		cancel()
	}
	q.removeLocked(id)
	q.processLocked()
	q.mu.Unlock()

	return q.deleteFromStore(ctx, id)
}

// ClearCompleted prunes all successfully uploaded items. Safe to call
// repeatedly; a second call is a no-op.
func (q *uploadQueue) ClearCompleted(ctx context.Context) error {
	q.mu.Lock()
	var kept []*domain.QueueItem
	for _, item := range q.items {
		if item.Status != domain.UploadStatusCompleted {
			kept = append(kept, item)
		}
	}
	q.items = kept
	q.mu.Unlock()

	if err := q.store.DeleteCompleted(ctx); err != nil {
		return fmt.Errorf("failed to clear completed items: %w", err)
	}
	return nil
}

// ClearErrors prunes all items settled in the error status
func (q *uploadQueue) ClearErrors(ctx context.Context) error {
	q.mu.Lock()
	var kept []*domain.QueueItem
	var removed []uuid.UUID
	for _, item := range q.items {
		if item.Status == domain.UploadStatusError {
			removed = append(removed, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept
	for _, id := range removed {
		if timer, ok := q.timers[id]; ok {
			timer.Stop()
			delete(q.timers, id)
		}
	}
	q.mu.Unlock()

	var firstErr error
	for _, id := range removed {
		if err := q.deleteFromStore(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ClearAll aborts any in-flight transfers and empties the queue entirely
func (q *uploadQueue) ClearAll(ctx context.Context) error {
	q.mu.Lock()
	for id, cancel := range q.cancels {
		cancel()
		delete(q.cancels, id)
	}
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	var removed []uuid.UUID
	for _, item := range q.items {
		removed = append(removed, item.ID)
	}
	q.items = nil
	q.lastSent = make(map[uuid.UUID]int64)
	q.samples = nil
	q.mu.Unlock()

	var firstErr error
	for _, id := range removed {
		if err := q.deleteFromStore(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (q *uploadQueue) deleteFromStore(ctx context.Context, id uuid.UUID) error {
	err := q.store.Delete(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		return fmt.Errorf("failed to delete queue item from store: %w", err)
	}
	return nil
}
