package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadStatus represents the lifecycle state of a queue item
type UploadStatus string

const (
	UploadStatusQueued    UploadStatus = "queued"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusError     UploadStatus = "error"
	UploadStatusCancelled UploadStatus = "cancelled"
	UploadStatusDuplicate UploadStatus = "duplicate"
)

// IsTerminal reports whether no further automatic transition can occur
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusCompleted || s == UploadStatusError || s == UploadStatusCancelled
}

// CancelledMessage is the fixed error message recorded on cancellation
const CancelledMessage = "Upload cancelled"

// QueueItem represents one unit of upload work
type QueueItem struct {
	ID          uuid.UUID
	Filename    string
	SizeBytes   int64
	ContentType string

	ProjectID   string
	CategoryID  *string
	Title       *string
	Description *string
	Latitude    *float64
	Longitude   *float64

	Status        UploadStatus
	Progress      int
	RetryCount    int
	Error         string
	FileHash      string
	DuplicateOfID *uuid.UUID

	UploadedPhoto *UploadedPhoto

	AddedAt     time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	// LocalPath points at the on-disk copy of the content, used to
	// reconstitute the payload after a restart. Blob is the live payload
	// for items submitted in-process and is never persisted.
	LocalPath string
	Blob      BlobSource `json:"-"`
}

// UploadedPhoto is the server-reported canonical result of a completed upload
type UploadedPhoto struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	Filename     string    `json:"filename"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// DuplicateMatch is the result of a duplicate check
type DuplicateMatch struct {
	IsDuplicate      bool
	OriginalID       uuid.UUID
	OriginalFilename string
	Confidence       float64
}
