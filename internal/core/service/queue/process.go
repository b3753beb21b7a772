package queue

import (
	"context"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// processQueue fills free upload slots from the front of the queued set,
// first-submitted-first-served. It is invoked whenever queue contents or
// pause state change.
func (q *uploadQueue) processQueue() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processLocked()
}

func (q *uploadQueue) processLocked() {
	if q.paused || q.closed {
		return
	}

	for _, item := range q.items {
		if q.uploading >= q.cfg.MaxConcurrent {
			return
		}
		if item.Status != domain.UploadStatusQueued {
			continue
		}
		q.startLocked(item)
	}
}

func (q *uploadQueue) startLocked(item *domain.QueueItem) {
	now := time.Now().UTC()
	item.Status = domain.UploadStatusUploading
	item.StartedAt = &now
	item.Progress = 0
	item.Error = ""
	q.uploading++
	q.lastSent[item.ID] = 0

	var ctx context.Context
	var cancel context.CancelFunc
	if q.cfg.UploadTimeout > 0 {
		ctx, cancel = context.WithTimeout(q.baseCtx, q.cfg.UploadTimeout)
	} else {
		ctx, cancel = context.WithCancel(q.baseCtx)
	}
	q.cancels[item.ID] = cancel

	snapshot := *item
	q.wg.Add(1)
	go q.transfer(ctx, cancel, snapshot)
}

// transfer drives a single upload to a terminal outcome or a retry
func (q *uploadQueue) transfer(ctx context.Context, cancel context.CancelFunc, item domain.QueueItem) {
	defer q.wg.Done()
	defer cancel()

	q.persist(item)
	q.publish(domain.EventTypeItemStarted, item)
	q.logger.Info("upload started", "item", item.ID, "filename", item.Filename)

	req := port.UploadRequest{
		ItemID:      item.ID,
		Filename:    item.Filename,
		ContentType: item.ContentType,
		ProjectID:   item.ProjectID,
		CategoryID:  item.CategoryID,
		Title:       item.Title,
		Description: item.Description,
		Latitude:    item.Latitude,
		Longitude:   item.Longitude,
		Blob:        item.Blob,
	}

	photo, err := q.uploader.Upload(ctx, req, func(sent, total int64) {
		q.onProgress(item.ID, sent, total)
	})

	if err != nil {
		q.settleFailure(item.ID, err)
		return
	}
	q.settleSuccess(item.ID, photo)
}

// onProgress applies a byte-progress event. Events arriving after the item
// left the uploading status are dropped, so a cancelled item never moves.
func (q *uploadQueue) onProgress(id uuid.UUID, sent, total int64) {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil || item.Status != domain.UploadStatusUploading {
		q.mu.Unlock()
		return
	}

	if total > 0 {
		pct := int(sent * 100 / total)
		if pct > 100 {
			pct = 100
		}
		if pct > item.Progress {
			item.Progress = pct
		}
	}

	delta := sent - q.lastSent[id]
	if delta > 0 {
		q.lastSent[id] = sent
		q.samples = append(q.samples, speedSample{at: time.Now(), bytes: delta})
		q.pruneSamplesLocked(time.Now())
	}
	progress := item.Progress
	q.mu.Unlock()

	ctx, cancelStore := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStore()
	if err := q.store.UpdateProgress(ctx, id, progress); err != nil {
		q.logger.Debug("failed to persist progress", "item", id, "error", err)
	}
}

func (q *uploadQueue) settleSuccess(id uuid.UUID, photo *domain.UploadedPhoto) {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil {
		q.releaseSlotLocked(id)
		q.processLocked()
		q.mu.Unlock()
		return
	}

	now := time.Now().UTC()
	item.Status = domain.UploadStatusCompleted
	item.Progress = 100
	item.Error = ""
	item.CompletedAt = &now
	item.UploadedPhoto = photo

	q.releaseSlotLocked(id)
	snapshot := *item
	q.processLocked()
	q.mu.Unlock()

	q.dedupe.Register(snapshot.FileHash, snapshot.ID, snapshot.Filename)
	q.persist(snapshot)
	q.publish(domain.EventTypeItemCompleted, snapshot)
	q.logger.Info("upload completed", "item", snapshot.ID, "filename", snapshot.Filename)

	if q.listeners.OnUploadComplete != nil && photo != nil {
		q.listeners.OnUploadComplete(snapshot, *photo)
	}
}

func (q *uploadQueue) settleFailure(id uuid.UUID, uploadErr error) {
	q.mu.Lock()

	item := q.findLocked(id)
	if item == nil {
		q.releaseSlotLocked(id)
		q.processLocked()
		q.mu.Unlock()
		return
	}

	// Cancel already moved the item to cancelled; just release the slot.
	if item.Status == domain.UploadStatusCancelled {
		q.releaseSlotLocked(id)
		snapshot := *item
		q.processLocked()
		q.mu.Unlock()

		q.persist(snapshot)
		q.publish(domain.EventTypeItemCancelled, snapshot)
		return
	}

	item.Status = domain.UploadStatusError
	item.Error = uploadErr.Error()
	q.releaseSlotLocked(id)

	retryable := q.cfg.AutoRetryOnNetworkError &&
		item.RetryCount < q.cfg.MaxRetries &&
		domain.IsNetworkError(uploadErr)

	if retryable {
		q.scheduleRetryLocked(item.ID)
	}

	snapshot := *item
	q.processLocked()
	q.mu.Unlock()

	q.persist(snapshot)
	q.logger.Warn("upload failed", "item", snapshot.ID, "filename", snapshot.Filename,
		"error", uploadErr, "retryCount", snapshot.RetryCount, "willRetry", retryable)

	if !retryable {
		q.publish(domain.EventTypeItemFailed, snapshot)
		if q.listeners.OnUploadError != nil {
			q.listeners.OnUploadError(snapshot, uploadErr)
		}
	}
}

// scheduleRetryLocked arms the delayed error -> queued transition
func (q *uploadQueue) scheduleRetryLocked(id uuid.UUID) {
	if q.closed {
		return
	}

	q.timers[id] = time.AfterFunc(q.cfg.RetryDelay, func() {
		q.autoRetry(id)
	})
}

func (q *uploadQueue) autoRetry(id uuid.UUID) {
	q.mu.Lock()

	delete(q.timers, id)
	item := q.findLocked(id)
	if item == nil || item.Status != domain.UploadStatusError || q.closed {
		q.mu.Unlock()
		return
	}

	item.RetryCount++
	item.Status = domain.UploadStatusQueued
	item.Error = ""
	item.Progress = 0
	snapshot := *item
	q.processLocked()
	q.mu.Unlock()

	q.persist(snapshot)
	q.publish(domain.EventTypeItemRetried, snapshot)
	q.logger.Info("upload requeued after network error", "item", id, "retryCount", snapshot.RetryCount)
}

func (q *uploadQueue) releaseSlotLocked(id uuid.UUID) {
	if q.uploading > 0 {
		q.uploading--
	}
	delete(q.cancels, id)
	delete(q.lastSent, id)
}
