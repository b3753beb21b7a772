package queue_test

import (
	"encoding/json"
	"io"
	"log/slog"
	http2 "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fieldsync/internal/adapters/handlers/http/chi"
	queue2 "fieldsync/internal/adapters/handlers/http/chi/v1/queue"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/service/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(service *queue.MockQueueService) http2.Handler {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := queue2.NewQueueHandlerV1(service, discardLogger)
	return chi.NewRouter(discardLogger, handler, "")
}

func sampleItems() []domain.QueueItem {
	return []domain.QueueItem{
		{
			ID:          uuid.New(),
			Filename:    "north-wall.jpg",
			SizeBytes:   4096,
			ContentType: "image/jpeg",
			ProjectID:   "project-1",
			Status:      domain.UploadStatusQueued,
			AddedAt:     time.Now().UTC(),
		},
		{
			ID:          uuid.New(),
			Filename:    "south-wall.jpg",
			SizeBytes:   8192,
			ContentType: "image/jpeg",
			ProjectID:   "project-2",
			Status:      domain.UploadStatusCompleted,
			Progress:    100,
			AddedAt:     time.Now().UTC(),
		},
	}
}

func TestGetItemsV1(t *testing.T) {
	t.Run("success - lists every item", func(t *testing.T) {
		// Arrange
		mockService := queue.NewMockQueueService()
		mockService.On("Items").Return(sampleItems())
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/queue/items", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response []queue2.V1QueueItemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Len(t, response, 2)
		mockService.AssertExpectations(t)
	})

	t.Run("success - project filter narrows the list", func(t *testing.T) {
		// Arrange
		mockService := queue.NewMockQueueService()
		mockService.On("Items").Return(sampleItems())
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/queue/items?project=project-2", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)

		var response []queue2.V1QueueItemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 1)
		assert.Equal(t, "south-wall.jpg", response[0].Filename)
	})
}

func TestGetItemV1(t *testing.T) {
	t.Run("success - returns one item", func(t *testing.T) {
		// Arrange
		item := sampleItems()[0]
		mockService := queue.NewMockQueueService()
		mockService.On("Item", item.ID).Return(&item, nil)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/queue/items/"+item.ID.String(), nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)

		var response queue2.V1QueueItemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, item.ID.String(), response.ID)
		assert.Equal(t, "north-wall.jpg", response.Filename)
	})

	t.Run("error - unknown item is a 404", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		mockService.On("Item", itemID).Return(nil, domain.ErrItemNotFound)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/queue/items/"+itemID.String(), nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})

	t.Run("error - malformed id is a 400", func(t *testing.T) {
		// Arrange
		mockService := queue.NewMockQueueService()
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/queue/items/not-a-uuid", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
	})
}

func TestGetStatsV1(t *testing.T) {
	// Arrange
	mockService := queue.NewMockQueueService()
	mockService.On("Stats").Return(domain.QueueStats{
		Total:                  3,
		Queued:                 1,
		Completed:              2,
		TotalBytes:             3000,
		UploadedBytes:          2000,
		OverallProgress:        67,
		UploadSpeed:            512,
		EstimatedTimeRemaining: 2 * time.Second,
	})
	mockService.On("IsProcessing").Return(true)
	mockService.On("IsPaused").Return(false)
	h := newTestServer(mockService)
	w := httptest.NewRecorder()

	req := httptest.NewRequest(http2.MethodGet, "/api/v1/queue/stats", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusOK, w.Code)

	var response queue2.V1StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 3, response.Total)
	assert.Equal(t, 67, response.OverallProgress)
	assert.Equal(t, float64(512), response.UploadSpeed)
	assert.Equal(t, int64(2), response.EstimatedTimeRemainingSeconds)
	assert.True(t, response.IsProcessing)
	assert.False(t, response.IsPaused)
}

func TestRetryItemV1(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		mockService.On("Retry", mock.Anything, itemID).Return(nil)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodPost, "/api/v1/queue/items/"+itemID.String()+"/retry", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("error - non-retryable state is a 409", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		mockService.On("Retry", mock.Anything, itemID).Return(domain.ErrInvalidTransition)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodPost, "/api/v1/queue/items/"+itemID.String()+"/retry", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusConflict, w.Code)
	})
}

func TestCancelItemV1(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		mockService.On("Cancel", mock.Anything, itemID).Return(nil)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodPost, "/api/v1/queue/items/"+itemID.String()+"/cancel", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("error - unknown item is a 404", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		mockService.On("Cancel", mock.Anything, itemID).Return(domain.ErrItemNotFound)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodPost, "/api/v1/queue/items/"+itemID.String()+"/cancel", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})
}

func TestResolveDuplicateV1(t *testing.T) {
	t.Run("success - replace resolution", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		mockService.On("ResolveDuplicate", mock.Anything, itemID, mock.Anything).Return(nil)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		body := strings.NewReader(`{"resolution":"replace"}`)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/queue/items/"+itemID.String()+"/resolve", body)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("error - unknown resolution is a 400", func(t *testing.T) {
		// Arrange
		itemID := uuid.New()
		mockService := queue.NewMockQueueService()
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		body := strings.NewReader(`{"resolution":"merge"}`)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/queue/items/"+itemID.String()+"/resolve", body)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ResolveDuplicate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQueueActionsV1(t *testing.T) {
	t.Run("pause and resume", func(t *testing.T) {
		// Arrange
		mockService := queue.NewMockQueueService()
		mockService.On("Pause").Return()
		mockService.On("Resume").Return()
		h := newTestServer(mockService)

		// Act
		pauseRec := httptest.NewRecorder()
		h.ServeHTTP(pauseRec, httptest.NewRequest(http2.MethodPost, "/api/v1/queue/pause", nil))
		resumeRec := httptest.NewRecorder()
		h.ServeHTTP(resumeRec, httptest.NewRequest(http2.MethodPost, "/api/v1/queue/resume", nil))

		// Assert
		assert.Equal(t, http2.StatusAccepted, pauseRec.Code)
		assert.Equal(t, http2.StatusAccepted, resumeRec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("clear endpoints map to the service", func(t *testing.T) {
		// Arrange
		mockService := queue.NewMockQueueService()
		mockService.On("ClearCompleted", mock.Anything).Return(nil)
		mockService.On("ClearErrors", mock.Anything).Return(nil)
		mockService.On("ClearAll", mock.Anything).Return(nil)
		h := newTestServer(mockService)

		// Act / Assert
		for _, path := range []string{"/clear-completed", "/clear-errors", "/clear"} {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http2.MethodPost, "/api/v1/queue"+path, nil))
			assert.Equal(t, http2.StatusNoContent, w.Code, path)
		}
		mockService.AssertExpectations(t)
	})

	t.Run("retry-all", func(t *testing.T) {
		// Arrange
		mockService := queue.NewMockQueueService()
		mockService.On("RetryAllFailed", mock.Anything).Return(nil)
		h := newTestServer(mockService)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http2.MethodPost, "/api/v1/queue/retry-all", nil))

		// Assert
		assert.Equal(t, http2.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
	})
}
