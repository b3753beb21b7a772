package httpupload_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fieldsync/internal/adapters/blob"
	"fieldsync/internal/adapters/uploader/httpupload"
	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploader(endpoint string) *httpupload.Uploader {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpupload.NewUploader(config.UploadConfig{Endpoint: endpoint}, logger)
}

func sampleRequest(content []byte) port.UploadRequest {
	title := "rebar inspection"
	lat := 34.05
	return port.UploadRequest{
		ItemID:      uuid.New(),
		Filename:    "rebar.jpg",
		ContentType: "image/jpeg",
		ProjectID:   "project-7",
		Title:       &title,
		Latitude:    &lat,
		Blob:        blob.NewBytesSource(content),
	}
}

func TestUploader_Upload_Success(t *testing.T) {
	// Arrange
	content := []byte("jpeg bytes")
	var gotProject, gotTitle, gotLatitude string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotProject = r.FormValue("projectId")
		gotTitle = r.FormValue("title")
		gotLatitude = r.FormValue("latitude")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFile, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"photo": domain.UploadedPhoto{
				ID:         "photo-1",
				ProjectID:  "project-7",
				Filename:   "rebar.jpg",
				URL:        "https://photos.example.com/photo-1",
				SizeBytes:  int64(len(content)),
				UploadedAt: time.Now().UTC(),
			},
		})
	}))
	defer server.Close()

	// Act
	photo, err := newUploader(server.URL).Upload(context.Background(), sampleRequest(content), nil)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, photo)
	assert.Equal(t, "photo-1", photo.ID)
	assert.Equal(t, "project-7", gotProject)
	assert.Equal(t, "rebar inspection", gotTitle)
	assert.Equal(t, "34.05", gotLatitude)
	assert.Equal(t, content, gotFile)
}

func TestUploader_Upload_ProgressIsMonotonic(t *testing.T) {
	// Arrange
	content := make([]byte, 256*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"photo":   domain.UploadedPhoto{ID: "photo-2"},
		})
	}))
	defer server.Close()

	var mu sync.Mutex
	var samples []int64
	progress := func(sent, total int64) {
		mu.Lock()
		defer mu.Unlock()
		samples = append(samples, sent)
		assert.Equal(t, int64(len(content)), total)
	}

	// Act
	_, err := newUploader(server.URL).Upload(context.Background(), sampleRequest(content), progress)

	// Assert
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, samples)
	for i := 1; i < len(samples); i++ {
		assert.GreaterOrEqual(t, samples[i], samples[i-1])
	}
	assert.Equal(t, int64(len(content)), samples[len(samples)-1])
}

func TestUploader_Upload_ErrorEnvelope(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "project not found",
		})
	}))
	defer server.Close()

	// Act
	photo, err := newUploader(server.URL).Upload(context.Background(), sampleRequest([]byte("x")), nil)

	// Assert: a 4xx rejection is permanent, not network-class
	require.Error(t, err)
	assert.Nil(t, photo)
	assert.Contains(t, err.Error(), "project not found")
	assert.False(t, domain.IsNetworkError(err))
}

func TestUploader_Upload_ServerErrorIsNetworkClass(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	// Act
	_, err := newUploader(server.URL).Upload(context.Background(), sampleRequest([]byte("x")), nil)

	// Assert
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
}

func TestUploader_Upload_ConnectionRefusedIsNetworkClass(t *testing.T) {
	// Arrange: a closed server yields a transport-level failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	// Act
	_, err := newUploader(endpoint).Upload(context.Background(), sampleRequest([]byte("x")), nil)

	// Assert
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
}

func TestUploader_Upload_ContextCancellationAborts(t *testing.T) {
	// Arrange
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	// Act
	_, err := newUploader(server.URL).Upload(ctx, sampleRequest(make([]byte, 1<<20)), nil)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
