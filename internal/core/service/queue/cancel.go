package queue

import (
	"context"
	"fieldsync/internal/core/domain"

	"github.com/google/uuid"
)

// Cancel aborts one item. A queued item transitions immediately; an in-flight
// item has its transfer context cancelled and settles once the transport
// observes the abort. An item waiting out its retry delay has the timer
// stopped. Cancelling a settled item is a no-op.
func (q *uploadQueue) Cancel(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil {
		q.mu.Unlock()
		return domain.ErrItemNotFound
	}
	if !q.cancellableLocked(item) {
		q.mu.Unlock()
		return nil
	}

	q.cancelLocked(item)
	inFlight := q.cancels[id] != nil
	snapshot := *item
	q.mu.Unlock()

	// In-flight items are persisted and published by the transfer goroutine
	// once the abort lands; queued ones settle here.
	if !inFlight {
		q.persist(snapshot)
		q.publish(domain.EventTypeItemCancelled, snapshot)
	}
	return nil
}

// CancelAll aborts every cancellable item
func (q *uploadQueue) CancelAll(_ context.Context) error {
	q.mu.Lock()

	var settled []domain.QueueItem
	for _, item := range q.items {
		if !q.cancellableLocked(item) {
			continue
		}
		wasInFlight := q.cancels[item.ID] != nil
		q.cancelLocked(item)
		if !wasInFlight {
			settled = append(settled, *item)
		}
	}
	q.mu.Unlock()

	for _, snapshot := range settled {
		q.persist(snapshot)
		q.publish(domain.EventTypeItemCancelled, snapshot)
	}
	return nil
}

// cancellableLocked reports whether the item can still be cancelled. Error
// status is terminal only once the retry budget is spent; an item whose retry
// timer is armed is still live.
func (q *uploadQueue) cancellableLocked(item *domain.QueueItem) bool {
	if item.Status == domain.UploadStatusError {
		_, armed := q.timers[item.ID]
		return armed
	}
	return !item.Status.IsTerminal()
}

// cancelLocked flips the item to cancelled and releases its transfer and any
// armed retry timer
func (q *uploadQueue) cancelLocked(item *domain.QueueItem) {
	item.Status = domain.UploadStatusCancelled
	item.Error = domain.CancelledMessage

	if timer, ok := q.timers[item.ID]; ok {
		timer.Stop()
		delete(q.timers, item.ID)
	}
	if cancel, ok := q.cancels[item.ID]; ok {
		cancel()
	}
}
