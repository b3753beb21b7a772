package queue_test

import (
	"context"
	"testing"
	"time"

	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"fieldsync/internal/core/service/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadQueue_Add_OversizedFileNeverEntersQueue(t *testing.T) {
	// Arrange
	cfg := defaultCfg
	cfg.MaxFileSize = 4
	up := newFakeUploader()

	rejected := make(chan error, 1)
	service := newTestQueue(t, cfg, up, queue.Listeners{
		OnRejected: func(filename string, reason error) {
			assert.Equal(t, "huge.jpg", filename)
			rejected <- reason
		},
	})

	// Act
	err := service.Add(context.Background(), []port.Submission{
		submission("huge.jpg", []byte("way too many bytes")),
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, service.Items())
	select {
	case reason := <-rejected:
		assert.ErrorIs(t, reason, domain.ErrFileTooBig)
	case <-time.After(time.Second):
		t.Fatal("rejection listener never fired")
	}
	up.assertNoneStarted(t, 50*time.Millisecond)
}

func TestUploadQueue_Add_DisallowedContentTypeRejected(t *testing.T) {
	// Arrange
	up := newFakeUploader()
	rejected := make(chan error, 1)
	service := newTestQueue(t, defaultCfg, up, queue.Listeners{
		OnRejected: func(_ string, reason error) { rejected <- reason },
	})

	sub := submission("doc.pdf", []byte("pdf bytes"))
	sub.ContentType = "application/pdf"

	// Act
	require.NoError(t, service.Add(context.Background(), []port.Submission{sub}))

	// Assert
	assert.Empty(t, service.Items())
	select {
	case reason := <-rejected:
		assert.ErrorIs(t, reason, domain.ErrContentTypeNotAllowed)
	case <-time.After(time.Second):
		t.Fatal("rejection listener never fired")
	}
}

func TestUploadQueue_Add_EmptyContentRejected(t *testing.T) {
	// Arrange
	up := newFakeUploader()
	rejected := make(chan error, 1)
	service := newTestQueue(t, defaultCfg, up, queue.Listeners{
		OnRejected: func(_ string, reason error) { rejected <- reason },
	})

	// Act
	require.NoError(t, service.Add(context.Background(), []port.Submission{
		submission("empty.jpg", nil),
	}))

	// Assert
	assert.Empty(t, service.Items())
	assert.ErrorIs(t, <-rejected, domain.ErrEmptyContent)
}

func TestUploadQueue_Add_SameContentTwiceIsDuplicate(t *testing.T) {
	// Arrange
	up := newFakeUploader()
	detected := make(chan domain.DuplicateMatch, 1)
	service := newTestQueue(t, defaultCfg, up, queue.Listeners{
		OnDuplicateDetected: func(_ domain.QueueItem, match domain.DuplicateMatch) {
			detected <- match
		},
	})

	content := []byte("identical site photo bytes")
	require.NoError(t, service.Add(context.Background(), []port.Submission{
		submission("first.jpg", content),
	}))
	up.waitStarted(t)
	first := itemByFilename(t, service, "first.jpg")

	// Act: resubmit the same bytes under a different name
	require.NoError(t, service.Add(context.Background(), []port.Submission{
		submission("second.jpg", content),
	}))

	// Assert
	second := itemByFilename(t, service, "second.jpg")
	assert.Equal(t, domain.UploadStatusDuplicate, second.Status)
	require.NotNil(t, second.DuplicateOfID)
	assert.Equal(t, first.ID, *second.DuplicateOfID)

	select {
	case match := <-detected:
		assert.True(t, match.IsDuplicate)
		assert.Equal(t, first.ID, match.OriginalID)
		assert.Equal(t, 1.0, match.Confidence)
	case <-time.After(time.Second):
		t.Fatal("duplicate listener never fired")
	}
}

func TestUploadQueue_Add_DuplicateDetectionDisabledSkipsHashing(t *testing.T) {
	// Arrange
	cfg := defaultCfg
	cfg.EnableDuplicateDetection = false
	up := newFakeUploader()
	service := newTestQueue(t, cfg, up, queue.Listeners{})

	content := []byte("identical bytes")

	// Act
	require.NoError(t, service.Add(context.Background(), []port.Submission{
		submission("one.jpg", content),
		submission("two.jpg", content),
	}))

	// Assert: both accepted, neither fingerprinted
	one := itemByFilename(t, service, "one.jpg")
	two := itemByFilename(t, service, "two.jpg")
	assert.Empty(t, one.FileHash)
	assert.Empty(t, two.FileHash)
	assert.NotEqual(t, domain.UploadStatusDuplicate, two.Status)
}
