package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type queueStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the queue database and applies migrations
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping queue database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// NewQueueStore creates a queueStore that implements port.QueueStore
func NewQueueStore(db *sql.DB) port.QueueStore {
	return &queueStore{db: db}
}

const itemColumns = `id, filename, size_bytes, content_type, project_id, category_id,
	title, description, latitude, longitude, status, progress, retry_count,
	error, file_hash, duplicate_of_id, local_path, uploaded_photo,
	added_at, started_at, completed_at`

// Save inserts the item, or overwrites the stored record when the id exists
func (s *queueStore) Save(ctx context.Context, item domain.QueueItem) error {
	row, err := toRow(item)
	if err != nil {
		return err
	}

	query := `INSERT INTO queue_items (` + itemColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET
	            status = excluded.status,
	            progress = excluded.progress,
	            retry_count = excluded.retry_count,
	            error = excluded.error,
	            file_hash = excluded.file_hash,
	            duplicate_of_id = excluded.duplicate_of_id,
	            local_path = excluded.local_path,
	            uploaded_photo = excluded.uploaded_photo,
	            started_at = excluded.started_at,
	            completed_at = excluded.completed_at`

	_, err = s.db.ExecContext(ctx, query,
		row.ID, row.Filename, row.SizeBytes, row.ContentType, row.ProjectID,
		row.CategoryID, row.Title, row.Description, row.Latitude, row.Longitude,
		row.Status, row.Progress, row.RetryCount, row.Error, row.FileHash,
		row.DuplicateOfID, row.LocalPath, row.UploadedPhoto,
		row.AddedAt, row.StartedAt, row.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving queue item: %w", err)
	}
	return nil
}

// FindByID finds one item by id
func (s *queueStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE id = ?`

	var row dbQueueItem
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("error querying queue item: %w", err)
	}

	return row.toDomain()
}

// FindByProject lists all items owned by a project, oldest first
func (s *queueStore) FindByProject(ctx context.Context, projectID string) ([]domain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE project_id = ? ORDER BY added_at`
	return s.queryItems(ctx, query, projectID)
}

// FindAll lists every stored item, oldest first
func (s *queueStore) FindAll(ctx context.Context) ([]domain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items ORDER BY added_at`
	return s.queryItems(ctx, query)
}

// FindPending lists items still eligible for upload: queued items, plus
// errored items whose retry count has not exhausted maxRetries.
func (s *queueStore) FindPending(ctx context.Context, maxRetries int) ([]domain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items
	          WHERE status = ? OR (status = ? AND retry_count < ?)
	          ORDER BY added_at`
	return s.queryItems(ctx, query, string(domain.UploadStatusQueued), string(domain.UploadStatusError), maxRetries)
}

// UpdateStatus updates an item's status and error message
func (s *queueStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UploadStatus, uploadErr string) error {
	query := `UPDATE queue_items SET status = ?, error = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, string(status), uploadErr, id.String())
	if err != nil {
		return fmt.Errorf("error updating queue item status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// UpdateProgress updates an item's transfer progress
func (s *queueStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	query := `UPDATE queue_items SET progress = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, progress, id.String())
	if err != nil {
		return fmt.Errorf("error updating queue item progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// DeleteCompleted prunes all terminally-successful items
func (s *queueStore) DeleteCompleted(ctx context.Context) error {
	query := `DELETE FROM queue_items WHERE status = ?`

	if _, err := s.db.ExecContext(ctx, query, string(domain.UploadStatusCompleted)); err != nil {
		return fmt.Errorf("error deleting completed queue items: %w", err)
	}
	return nil
}

// Delete removes one item by id
func (s *queueStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM queue_items WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("error deleting queue item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *queueStore) queryItems(ctx context.Context, query string, args ...any) ([]domain.QueueItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying queue items: %w", err)
	}
	defer rows.Close()

	var items []domain.QueueItem
	for rows.Next() {
		var row dbQueueItem
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("error scanning queue item: %w", err)
		}
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue items: %w", err)
	}
	return items, nil
}

// dbQueueItem represents a queue item row in the database
type dbQueueItem struct {
	ID            string
	Filename      string
	SizeBytes     int64
	ContentType   string
	ProjectID     string
	CategoryID    sql.NullString
	Title         sql.NullString
	Description   sql.NullString
	Latitude      sql.NullFloat64
	Longitude     sql.NullFloat64
	Status        string
	Progress      int
	RetryCount    int
	Error         string
	FileHash      string
	DuplicateOfID sql.NullString
	LocalPath     string
	UploadedPhoto sql.NullString
	AddedAt       time.Time
	StartedAt     sql.NullTime
	CompletedAt   sql.NullTime
}

func (r *dbQueueItem) scanTargets() []any {
	return []any{
		&r.ID, &r.Filename, &r.SizeBytes, &r.ContentType, &r.ProjectID,
		&r.CategoryID, &r.Title, &r.Description, &r.Latitude, &r.Longitude,
		&r.Status, &r.Progress, &r.RetryCount, &r.Error, &r.FileHash,
		&r.DuplicateOfID, &r.LocalPath, &r.UploadedPhoto,
		&r.AddedAt, &r.StartedAt, &r.CompletedAt,
	}
}

func (r *dbQueueItem) toDomain() (*domain.QueueItem, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("error parsing queue item id %q: %w", r.ID, err)
	}

	item := domain.QueueItem{
		ID:          id,
		Filename:    r.Filename,
		SizeBytes:   r.SizeBytes,
		ContentType: r.ContentType,
		ProjectID:   r.ProjectID,
		Status:      domain.UploadStatus(r.Status),
		Progress:    r.Progress,
		RetryCount:  r.RetryCount,
		Error:       r.Error,
		FileHash:    r.FileHash,
		LocalPath:   r.LocalPath,
		AddedAt:     r.AddedAt,
	}

	if r.CategoryID.Valid {
		item.CategoryID = &r.CategoryID.String
	}
	if r.Title.Valid {
		item.Title = &r.Title.String
	}
	if r.Description.Valid {
		item.Description = &r.Description.String
	}
	if r.Latitude.Valid {
		item.Latitude = &r.Latitude.Float64
	}
	if r.Longitude.Valid {
		item.Longitude = &r.Longitude.Float64
	}
	if r.DuplicateOfID.Valid {
		dupID, err := uuid.Parse(r.DuplicateOfID.String)
		if err != nil {
			return nil, fmt.Errorf("error parsing duplicate_of_id %q: %w", r.DuplicateOfID.String, err)
		}
		item.DuplicateOfID = &dupID
	}
	if r.UploadedPhoto.Valid && r.UploadedPhoto.String != "" {
		var photo domain.UploadedPhoto
		if err := json.Unmarshal([]byte(r.UploadedPhoto.String), &photo); err != nil {
			return nil, fmt.Errorf("error decoding uploaded photo: %w", err)
		}
		item.UploadedPhoto = &photo
	}
	if r.StartedAt.Valid {
		item.StartedAt = &r.StartedAt.Time
	}
	if r.CompletedAt.Valid {
		item.CompletedAt = &r.CompletedAt.Time
	}

	return &item, nil
}

func toRow(item domain.QueueItem) (*dbQueueItem, error) {
	row := dbQueueItem{
		ID:          item.ID.String(),
		Filename:    item.Filename,
		SizeBytes:   item.SizeBytes,
		ContentType: item.ContentType,
		ProjectID:   item.ProjectID,
		Status:      string(item.Status),
		Progress:    item.Progress,
		RetryCount:  item.RetryCount,
		Error:       item.Error,
		FileHash:    item.FileHash,
		LocalPath:   item.LocalPath,
		AddedAt:     item.AddedAt,
	}

	if item.CategoryID != nil {
		row.CategoryID = sql.NullString{String: *item.CategoryID, Valid: true}
	}
	if item.Title != nil {
		row.Title = sql.NullString{String: *item.Title, Valid: true}
	}
	if item.Description != nil {
		row.Description = sql.NullString{String: *item.Description, Valid: true}
	}
	if item.Latitude != nil {
		row.Latitude = sql.NullFloat64{Float64: *item.Latitude, Valid: true}
	}
	if item.Longitude != nil {
		row.Longitude = sql.NullFloat64{Float64: *item.Longitude, Valid: true}
	}
	if item.DuplicateOfID != nil {
		row.DuplicateOfID = sql.NullString{String: item.DuplicateOfID.String(), Valid: true}
	}
	if item.UploadedPhoto != nil {
		encoded, err := json.Marshal(item.UploadedPhoto)
		if err != nil {
			return nil, fmt.Errorf("error encoding uploaded photo: %w", err)
		}
		row.UploadedPhoto = sql.NullString{String: string(encoded), Valid: true}
	}
	if item.StartedAt != nil {
		row.StartedAt = sql.NullTime{Time: *item.StartedAt, Valid: true}
	}
	if item.CompletedAt != nil {
		row.CompletedAt = sql.NullTime{Time: *item.CompletedAt, Valid: true}
	}

	return &row, nil
}
