package domain

import "time"

// QueueStats is a derived aggregate over the current item list. It is
// recomputed on demand and never persisted.
type QueueStats struct {
	Total     int `json:"total"`
	Queued    int `json:"queued"`
	Uploading int `json:"uploading"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
	Duplicate int `json:"duplicate"`

	TotalBytes    int64 `json:"totalBytes"`
	UploadedBytes int64 `json:"uploadedBytes"`

	// OverallProgress is round(100 * completed / total), 0 for an empty queue.
	OverallProgress int `json:"overallProgress"`

	// UploadSpeed is bytes per second over the trailing sample window.
	// Zero when fewer than two samples exist or no time has elapsed.
	UploadSpeed float64 `json:"uploadSpeed"`

	// EstimatedTimeRemaining is zero whenever UploadSpeed is zero.
	EstimatedTimeRemaining time.Duration `json:"estimatedTimeRemaining"`
}
