package queue

import (
	"context"
	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Listeners are optional callbacks fired on item lifecycle transitions.
// They are invoked outside the queue lock, on the goroutine driving the
// transition.
type Listeners struct {
	OnUploadComplete    func(item domain.QueueItem, photo domain.UploadedPhoto)
	OnUploadError       func(item domain.QueueItem, err error)
	OnDuplicateDetected func(item domain.QueueItem, match domain.DuplicateMatch)
	OnRejected          func(filename string, reason error)
}

type speedSample struct {
	at    time.Time
	bytes int64
}

type uploadQueue struct {
	cfg       config.QueueConfig
	store     port.QueueStore
	uploader  port.Uploader
	hasher    port.Hasher
	dedupe    port.DedupeService
	events    port.EventPublisher
	listeners Listeners
	logger    *slog.Logger

	mu        sync.Mutex
	items     []*domain.QueueItem
	cancels   map[uuid.UUID]context.CancelFunc
	timers    map[uuid.UUID]*time.Timer
	lastSent  map[uuid.UUID]int64
	samples   []speedSample
	uploading int
	paused    bool
	closed    bool

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// NewUploadQueue creates the upload queue engine. cfg must have been
// validated; store is the durable system of record, uploader performs the
// transfers, hasher and dedupe implement duplicate detection.
func NewUploadQueue(
	cfg config.QueueConfig,
	store port.QueueStore,
	up port.Uploader,
	hasher port.Hasher,
	dedupe port.DedupeService,
	events port.EventPublisher,
	listeners Listeners,
	logger *slog.Logger,
) port.QueueService {
	baseCtx, baseCancel := context.WithCancel(context.Background())

	return &uploadQueue{
		cfg:        cfg,
		store:      store,
		uploader:   up,
		hasher:     hasher,
		dedupe:     dedupe,
		events:     events,
		listeners:  listeners,
		logger:     logger,
		cancels:    make(map[uuid.UUID]context.CancelFunc),
		timers:     make(map[uuid.UUID]*time.Timer),
		lastSent:   make(map[uuid.UUID]int64),
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
}

// Items returns a snapshot of all items in submission order
func (q *uploadQueue) Items() []domain.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Item returns a snapshot of one item
func (q *uploadQueue) Item(id uuid.UUID) (*domain.QueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := q.findLocked(id)
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

// IsProcessing reports whether any transfer is currently in flight
func (q *uploadQueue) IsProcessing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.uploading > 0
}

// Close aborts in-flight transfers, stops pending retry timers and waits
// for transfer goroutines to drain. The queue is unusable afterwards.
func (q *uploadQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	q.baseCancel()
	q.wg.Wait()
	return nil
}

func (q *uploadQueue) snapshotLocked() []domain.QueueItem {
	out := make([]domain.QueueItem, 0, len(q.items))
	for _, item := range q.items {
		out = append(out, *item)
	}
	return out
}

func (q *uploadQueue) findLocked(id uuid.UUID) *domain.QueueItem {
	for _, item := range q.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (q *uploadQueue) removeLocked(id uuid.UUID) {
	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	delete(q.lastSent, id)
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
}

// persist writes the item through to the store. Failures are logged and the
// in-memory state kept; the store catches up on the next successful write.
func (q *uploadQueue) persist(item domain.QueueItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := q.store.Save(ctx, item); err != nil {
		q.logger.Error("failed to persist queue item", "item", item.ID, "error", err)
	}
}

func (q *uploadQueue) publish(eventType domain.EventType, item domain.QueueItem) {
	event := domain.QueueEvent{
		Type:       eventType,
		ItemID:     item.ID,
		ProjectID:  item.ProjectID,
		Filename:   item.Filename,
		Error:      item.Error,
		OccurredAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := q.events.Publish(ctx, event); err != nil {
		q.logger.Warn("failed to publish queue event", "type", eventType, "error", err)
	}
}
