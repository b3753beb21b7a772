package eventbroker

import (
	"context"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
)

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) Publish(_ context.Context, _ domain.QueueEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

var _ port.EventPublisher = NoopPublisher{}
