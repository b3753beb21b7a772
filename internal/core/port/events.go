package port

import (
	"context"
	"fieldsync/internal/core/domain"
)

// EventPublisher is an interface to define a queue event sink (nats, noop, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.QueueEvent) error
	Close() error
}
