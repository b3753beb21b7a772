package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"

	"github.com/google/uuid"
)

// BlobResolver reopens the content of a persisted item, typically from its
// recorded local path. It is injected so the service stays free of
// filesystem concerns.
type BlobResolver func(item domain.QueueItem) (domain.BlobSource, error)

// Ownership reports whether the in-process scheduler currently holds the
// item in a non-terminal state. A pass never transfers a held item; the
// scheduler is its only driver. A nil Ownership means no scheduler is live
// and the pass drains the store alone, which is the post-restart case.
type Ownership func(id uuid.UUID) bool

// Callbacks are optional notifications fired at the end of each sync pass,
// on the goroutine that ran the pass.
type Callbacks struct {
	OnSyncComplete func(uploadedCount int)
	OnSyncError    func(err error)
}

type syncService struct {
	cfg       config.SyncConfig
	queueCfg  config.QueueConfig
	store     port.QueueStore
	uploader  port.Uploader
	dedupe    port.DedupeService
	monitor   port.NetworkMonitor
	events    port.EventPublisher
	resolve   BlobResolver
	owned     Ownership
	callbacks Callbacks
	logger    *slog.Logger

	// running guards against overlapping passes when a connectivity
	// transition and the periodic tick fire together.
	running atomic.Bool
}

// NewSyncService creates the resynchronizer. It drives pending persisted
// items through the uploader whenever connectivity returns or the periodic
// interval elapses while online.
func NewSyncService(
	cfg config.SyncConfig,
	queueCfg config.QueueConfig,
	store port.QueueStore,
	up port.Uploader,
	dedupe port.DedupeService,
	monitor port.NetworkMonitor,
	events port.EventPublisher,
	resolve BlobResolver,
	owned Ownership,
	callbacks Callbacks,
	logger *slog.Logger,
) port.SyncService {
	return &syncService{
		cfg:       cfg,
		queueCfg:  queueCfg,
		store:     store,
		uploader:  up,
		dedupe:    dedupe,
		monitor:   monitor,
		events:    events,
		resolve:   resolve,
		owned:     owned,
		callbacks: callbacks,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled, triggering a sync pass on each
// offline to online transition and on every tick while online.
func (s *syncService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-s.monitor.Transitions():
			if !ok {
				return
			}
			if online {
				s.logger.Info("connectivity restored, checking for pending items")
				s.trigger(ctx)
			}
		case <-ticker.C:
			if s.monitor.Online() {
				s.trigger(ctx)
			}
		}
	}
}

// HasPending reports whether any persisted item still needs a transfer
func (s *syncService) HasPending(ctx context.Context) (bool, error) {
	pending, err := s.store.FindPending(ctx, s.queueCfg.MaxRetries)
	if err != nil {
		return false, err
	}
	return len(pending) > 0, nil
}

// trigger runs a pass when there is work. A pass already in flight absorbs
// the trigger silently.
func (s *syncService) trigger(ctx context.Context) {
	pending, err := s.HasPending(ctx)
	if err != nil {
		s.logger.Error("failed to check for pending items", "error", err)
		return
	}
	if !pending {
		return
	}

	uploaded, err := s.SyncPass(ctx)
	switch {
	case err == nil:
		s.logger.Info("sync pass finished", "uploaded", uploaded)
	case errors.Is(err, domain.ErrSyncInProgress):
	default:
		s.logger.Error("sync pass failed", "error", err)
	}
}
