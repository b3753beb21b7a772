package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fieldsync/internal/adapters/repository/sqlite"
	"fieldsync/internal/core/domain"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))

	return db, func() { _ = db.Close() }
}

func sampleItem() domain.QueueItem {
	category := "cat-7"
	title := "footing pour"
	lat := 35.6812
	lon := 139.7671

	return domain.QueueItem{
		ID:          uuid.New(),
		Filename:    "site-001.jpg",
		SizeBytes:   2048,
		ContentType: "image/jpeg",
		ProjectID:   "project-42",
		CategoryID:  &category,
		Title:       &title,
		Latitude:    &lat,
		Longitude:   &lon,
		Status:      domain.UploadStatusQueued,
		FileHash:    "deadbeef",
		LocalPath:   "/spool/site-001.jpg",
		AddedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestQueueStore_SaveAndFindByID_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	item := sampleItem()
	item.RetryCount = 2
	item.UploadedPhoto = &domain.UploadedPhoto{
		ID:        "photo-9",
		ProjectID: item.ProjectID,
		Filename:  item.Filename,
		URL:       "https://photos.example.com/photo-9",
		SizeBytes: item.SizeBytes,
	}

	// Act
	require.NoError(t, store.Save(ctx, item))
	got, err := store.FindByID(ctx, item.ID)

	// Assert: a reload after restart yields the same record
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Status, got.Status)
	assert.Equal(t, item.RetryCount, got.RetryCount)
	assert.Equal(t, item.ProjectID, got.ProjectID)
	assert.Equal(t, *item.CategoryID, *got.CategoryID)
	assert.Equal(t, *item.Title, *got.Title)
	assert.Equal(t, *item.Latitude, *got.Latitude)
	assert.Equal(t, *item.Longitude, *got.Longitude)
	assert.Equal(t, item.FileHash, got.FileHash)
	assert.Equal(t, item.LocalPath, got.LocalPath)
	require.NotNil(t, got.UploadedPhoto)
	assert.Equal(t, "photo-9", got.UploadedPhoto.ID)
}

func TestQueueStore_FindByID_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	// Act
	_, err := store.FindByID(ctx, uuid.New())

	// Assert
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestQueueStore_Save_UpsertOverwrites(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	item := sampleItem()
	require.NoError(t, store.Save(ctx, item))

	// Act
	item.Status = domain.UploadStatusError
	item.Error = "network timeout"
	item.RetryCount = 1
	require.NoError(t, store.Save(ctx, item))
	got, err := store.FindByID(ctx, item.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusError, got.Status)
	assert.Equal(t, "network timeout", got.Error)
	assert.Equal(t, 1, got.RetryCount)
}

func TestQueueStore_FindByProject(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	mine := sampleItem()
	other := sampleItem()
	other.ID = uuid.New()
	other.ProjectID = "project-99"
	require.NoError(t, store.Save(ctx, mine))
	require.NoError(t, store.Save(ctx, other))

	// Act
	items, err := store.FindByProject(ctx, "project-42")

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
}

func TestQueueStore_FindPending_FiltersByStatusAndRetries(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	queued := sampleItem()

	retryable := sampleItem()
	retryable.ID = uuid.New()
	retryable.Status = domain.UploadStatusError
	retryable.RetryCount = 1

	exhausted := sampleItem()
	exhausted.ID = uuid.New()
	exhausted.Status = domain.UploadStatusError
	exhausted.RetryCount = 3

	completed := sampleItem()
	completed.ID = uuid.New()
	completed.Status = domain.UploadStatusCompleted

	for _, item := range []domain.QueueItem{queued, retryable, exhausted, completed} {
		require.NoError(t, store.Save(ctx, item))
	}

	// Act
	pending, err := store.FindPending(ctx, 3)

	// Assert
	require.NoError(t, err)
	require.Len(t, pending, 2)
	ids := []uuid.UUID{pending[0].ID, pending[1].ID}
	assert.Contains(t, ids, queued.ID)
	assert.Contains(t, ids, retryable.ID)
}

func TestQueueStore_UpdateStatus(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	item := sampleItem()
	require.NoError(t, store.Save(ctx, item))

	// Act
	err := store.UpdateStatus(ctx, item.ID, domain.UploadStatusCancelled, domain.CancelledMessage)

	// Assert
	require.NoError(t, err)
	got, findErr := store.FindByID(ctx, item.ID)
	require.NoError(t, findErr)
	assert.Equal(t, domain.UploadStatusCancelled, got.Status)
	assert.Equal(t, domain.CancelledMessage, got.Error)
}

func TestQueueStore_UpdateStatus_MissingItem(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	// Act
	err := store.UpdateStatus(ctx, uuid.New(), domain.UploadStatusCompleted, "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestQueueStore_UpdateProgress(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	item := sampleItem()
	require.NoError(t, store.Save(ctx, item))

	// Act
	err := store.UpdateProgress(ctx, item.ID, 55)

	// Assert
	require.NoError(t, err)
	got, findErr := store.FindByID(ctx, item.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 55, got.Progress)
}

func TestQueueStore_DeleteCompleted_Idempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	completed := sampleItem()
	completed.Status = domain.UploadStatusCompleted
	queued := sampleItem()
	queued.ID = uuid.New()
	require.NoError(t, store.Save(ctx, completed))
	require.NoError(t, store.Save(ctx, queued))

	// Act: calling twice must equal calling once
	require.NoError(t, store.DeleteCompleted(ctx))
	require.NoError(t, store.DeleteCompleted(ctx))

	// Assert
	items, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, queued.ID, items[0].ID)
}

func TestQueueStore_Delete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, cleanup := newTestStore(t)
	defer cleanup()
	store := sqlite.NewQueueStore(db)

	item := sampleItem()
	require.NoError(t, store.Save(ctx, item))

	// Act
	require.NoError(t, store.Delete(ctx, item.ID))
	err := store.Delete(ctx, item.ID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
