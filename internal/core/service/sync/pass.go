package sync

import (
	"context"
	"fmt"
	"time"

	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
)

// SyncPass processes every pending persisted item once, oldest first.
// Items the scheduler holds in memory are skipped; exactly one transfer
// drives an item at a time. Per-item failures are written back and do not
// stop the pass; only a store-level failure aborts it. Returns
// domain.ErrSyncInProgress when a pass is already running.
func (s *syncService) SyncPass(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, domain.ErrSyncInProgress
	}
	defer s.running.Store(false)

	pending, err := s.store.FindPending(ctx, s.queueCfg.MaxRetries)
	if err != nil {
		s.failPass(err)
		return 0, fmt.Errorf("failed to load pending items: %w", err)
	}

	uploaded := 0
	for i := range pending {
		if ctx.Err() != nil {
			return uploaded, ctx.Err()
		}
		if s.owned != nil && s.owned(pending[i].ID) {
			continue
		}
		if s.syncItem(ctx, pending[i]) {
			uploaded++
		}
	}

	s.publish(domain.QueueEvent{
		Type:          domain.EventTypeSyncCompleted,
		UploadedCount: uploaded,
		OccurredAt:    time.Now().UTC(),
	})
	if s.callbacks.OnSyncComplete != nil {
		s.callbacks.OnSyncComplete(uploaded)
	}
	return uploaded, nil
}

// syncItem attempts one transfer and writes the outcome back to the store.
// Reports whether the item completed.
func (s *syncService) syncItem(ctx context.Context, item domain.QueueItem) bool {
	blob, err := s.resolve(item)
	if err != nil {
		s.logger.Warn("cannot reopen item content, marking failed",
			"item", item.ID, "path", item.LocalPath, "error", err)
		s.writeFailure(item, fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err))
		return false
	}

	uploadCtx := ctx
	if s.queueCfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.queueCfg.UploadTimeout)
		defer cancel()
	}

	// Claim the item in the store before the transfer so a reader never
	// sees it as pending mid-flight.
	now := time.Now().UTC()
	item.Status = domain.UploadStatusUploading
	item.StartedAt = &now
	s.save(item)

	photo, err := s.uploader.Upload(uploadCtx, port.UploadRequest{
		ItemID:      item.ID,
		Filename:    item.Filename,
		ContentType: item.ContentType,
		ProjectID:   item.ProjectID,
		CategoryID:  item.CategoryID,
		Title:       item.Title,
		Description: item.Description,
		Latitude:    item.Latitude,
		Longitude:   item.Longitude,
		Blob:        blob,
	}, nil)
	if err != nil {
		s.writeFailure(item, err)
		return false
	}

	done := time.Now().UTC()
	item.Status = domain.UploadStatusCompleted
	item.Progress = 100
	item.Error = ""
	item.UploadedPhoto = photo
	item.CompletedAt = &done
	s.save(item)

	if s.dedupe.Enabled() && item.FileHash != "" {
		s.dedupe.Register(item.FileHash, item.ID, item.Filename)
	}
	s.publish(domain.QueueEvent{
		Type:       domain.EventTypeItemCompleted,
		ItemID:     item.ID,
		ProjectID:  item.ProjectID,
		Filename:   item.Filename,
		OccurredAt: done,
	})
	return true
}

// writeFailure records one more failed attempt for the item
func (s *syncService) writeFailure(item domain.QueueItem, cause error) {
	item.Status = domain.UploadStatusError
	item.Error = cause.Error()
	item.RetryCount++
	s.save(item)

	s.publish(domain.QueueEvent{
		Type:       domain.EventTypeItemFailed,
		ItemID:     item.ID,
		ProjectID:  item.ProjectID,
		Filename:   item.Filename,
		Error:      item.Error,
		OccurredAt: time.Now().UTC(),
	})
}

// failPass reports a pass that could not run at all
func (s *syncService) failPass(cause error) {
	s.publish(domain.QueueEvent{
		Type:       domain.EventTypeSyncFailed,
		Error:      cause.Error(),
		OccurredAt: time.Now().UTC(),
	})
	if s.callbacks.OnSyncError != nil {
		s.callbacks.OnSyncError(cause)
	}
}

func (s *syncService) save(item domain.QueueItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Save(ctx, item); err != nil {
		s.logger.Error("failed to persist sync outcome", "item", item.ID, "error", err)
	}
}

func (s *syncService) publish(event domain.QueueEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish sync event", "type", event.Type, "error", err)
	}
}
