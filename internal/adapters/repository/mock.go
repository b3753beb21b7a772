package repository

import (
	"context"
	"fieldsync/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockQueueStore struct {
	mock.Mock
}

func NewMockQueueStore() *MockQueueStore {
	return &MockQueueStore{}
}

func (m *MockQueueStore) Save(ctx context.Context, item domain.QueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockQueueStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.QueueItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*domain.QueueItem)
	return item, args.Error(1)
}

func (m *MockQueueStore) FindByProject(ctx context.Context, projectID string) ([]domain.QueueItem, error) {
	args := m.Called(ctx, projectID)
	items, _ := args.Get(0).([]domain.QueueItem)
	return items, args.Error(1)
}

func (m *MockQueueStore) FindAll(ctx context.Context) ([]domain.QueueItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.QueueItem)
	return items, args.Error(1)
}

func (m *MockQueueStore) FindPending(ctx context.Context, maxRetries int) ([]domain.QueueItem, error) {
	args := m.Called(ctx, maxRetries)
	items, _ := args.Get(0).([]domain.QueueItem)
	return items, args.Error(1)
}

func (m *MockQueueStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UploadStatus, uploadErr string) error {
	args := m.Called(ctx, id, status, uploadErr)
	return args.Error(0)
}

func (m *MockQueueStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	args := m.Called(ctx, id, progress)
	return args.Error(0)
}

func (m *MockQueueStore) DeleteCompleted(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueueStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
