package queue

import (
	"context"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockQueueService struct {
	mock.Mock
}

func NewMockQueueService() *MockQueueService {
	return &MockQueueService{}
}

func (m *MockQueueService) Add(ctx context.Context, submissions []port.Submission) error {
	args := m.Called(ctx, submissions)
	return args.Error(0)
}

func (m *MockQueueService) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueueService) Retry(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueueService) RetryAllFailed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueueService) Cancel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueueService) CancelAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueueService) ResolveDuplicate(ctx context.Context, id uuid.UUID, resolution port.DuplicateResolution) error {
	args := m.Called(ctx, id, resolution)
	return args.Error(0)
}

func (m *MockQueueService) ClearCompleted(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueueService) ClearErrors(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueueService) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueueService) Pause() {
	m.Called()
}

func (m *MockQueueService) Resume() {
	m.Called()
}

func (m *MockQueueService) Items() []domain.QueueItem {
	args := m.Called()
	return args.Get(0).([]domain.QueueItem)
}

func (m *MockQueueService) Item(id uuid.UUID) (*domain.QueueItem, error) {
	args := m.Called(id)
	if item := args.Get(0); item != nil {
		return item.(*domain.QueueItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQueueService) Stats() domain.QueueStats {
	args := m.Called()
	return args.Get(0).(domain.QueueStats)
}

func (m *MockQueueService) IsProcessing() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockQueueService) IsPaused() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockQueueService) Close() error {
	args := m.Called()
	return args.Error(0)
}
