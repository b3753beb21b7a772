package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is a type that represents the type of a queue event
type EventType string

const (
	EventTypeItemQueued    EventType = "item_queued"
	EventTypeItemStarted   EventType = "item_started"
	EventTypeItemCompleted EventType = "item_completed"
	EventTypeItemFailed    EventType = "item_failed"
	EventTypeItemCancelled EventType = "item_cancelled"
	EventTypeItemDuplicate EventType = "item_duplicate"
	EventTypeItemRetried   EventType = "item_retried"
	EventTypeSyncCompleted EventType = "sync_completed"
	EventTypeSyncFailed    EventType = "sync_failed"
)

// QueueEvent is a notification emitted on queue lifecycle transitions
type QueueEvent struct {
	Type      EventType  `json:"type"`
	ItemID    uuid.UUID  `json:"itemId,omitempty"`
	ProjectID string     `json:"projectId,omitempty"`
	Filename  string     `json:"filename,omitempty"`
	Error     string     `json:"error,omitempty"`
	// UploadedCount is set only on sync_completed events.
	UploadedCount int       `json:"uploadedCount,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}
