package uploader

import (
	"context"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockUploader struct {
	mock.Mock
}

func NewMockUploader() *MockUploader {
	return &MockUploader{}
}

func (m *MockUploader) Upload(ctx context.Context, req port.UploadRequest, progress port.ProgressFunc) (*domain.UploadedPhoto, error) {
	args := m.Called(ctx, req, progress)
	if photo := args.Get(0); photo != nil {
		return photo.(*domain.UploadedPhoto), args.Error(1)
	}
	return nil, args.Error(1)
}
