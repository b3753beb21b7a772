package queue

import (
	"context"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// Add admits, fingerprints and enqueues submissions, then fills free upload
// slots. Items failing the admission filter never enter the queue; the
// OnRejected listener is the only feedback channel for them.
func (q *uploadQueue) Add(ctx context.Context, submissions []port.Submission) error {
	var firstErr error

	for _, sub := range submissions {
		if err := q.admit(sub); err != nil {
			if q.listeners.OnRejected != nil {
				q.listeners.OnRejected(sub.Filename, err)
			}
			q.logger.Info("submission rejected", "filename", sub.Filename, "reason", err)
			continue
		}

		if err := q.enqueue(ctx, sub); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	q.processQueue()
	return firstErr
}

func (q *uploadQueue) admit(sub port.Submission) error {
	if sub.Blob == nil || sub.Blob.Size() == 0 {
		return domain.ErrEmptyContent
	}
	if sub.Blob.Size() > q.cfg.MaxFileSize {
		return domain.ErrFileTooBig
	}

	for _, allowed := range q.cfg.AllowedMimeTypes {
		if sub.ContentType == allowed {
			return nil
		}
	}
	return domain.ErrContentTypeNotAllowed
}

func (q *uploadQueue) enqueue(ctx context.Context, sub port.Submission) error {
	var hash string
	if q.dedupe.Enabled() {
		var err error
		hash, err = q.hasher.Hash(ctx, sub.Blob)
		if err != nil {
			// A hashing failure only loses duplicate detection for this
			// item; the upload itself can still proceed.
			q.logger.Warn("failed to hash submission", "filename", sub.Filename, "error", err)
		}
	}

	item := &domain.QueueItem{
		ID:          uuid.New(),
		Filename:    sub.Filename,
		SizeBytes:   sub.Blob.Size(),
		ContentType: sub.ContentType,
		ProjectID:   sub.ProjectID,
		CategoryID:  sub.CategoryID,
		Title:       sub.Title,
		Description: sub.Description,
		Latitude:    sub.Latitude,
		Longitude:   sub.Longitude,
		Status:      domain.UploadStatusQueued,
		FileHash:    hash,
		LocalPath:   sub.LocalPath,
		AddedAt:     time.Now().UTC(),
		Blob:        sub.Blob,
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return domain.ErrQueueClosed
	}

	match := q.dedupe.Check(hash, q.snapshotLocked())
	if match.IsDuplicate {
		item.Status = domain.UploadStatusDuplicate
		originalID := match.OriginalID
		item.DuplicateOfID = &originalID
	}

	q.items = append(q.items, item)
	snapshot := *item
	q.mu.Unlock()

	if match.IsDuplicate {
		if q.listeners.OnDuplicateDetected != nil {
			q.listeners.OnDuplicateDetected(snapshot, match)
		}
		q.publish(domain.EventTypeItemDuplicate, snapshot)
	} else {
		q.publish(domain.EventTypeItemQueued, snapshot)
	}

	if err := q.store.Save(ctx, snapshot); err != nil {
		q.logger.Error("failed to persist new queue item", "item", snapshot.ID, "error", err)
		return err
	}
	return nil
}
