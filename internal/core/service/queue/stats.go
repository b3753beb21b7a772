package queue

import (
	"fieldsync/internal/core/domain"
	"math"
	"time"
)

// Stats recomputes the aggregate view of the queue. It is a pure function of
// the current item list and the trailing speed samples.
func (q *uploadQueue) Stats() domain.QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	var stats domain.QueueStats
	stats.Total = len(q.items)

	for _, item := range q.items {
		switch item.Status {
		case domain.UploadStatusQueued:
			stats.Queued++
		case domain.UploadStatusUploading:
			stats.Uploading++
		case domain.UploadStatusCompleted:
			stats.Completed++
		case domain.UploadStatusError:
			stats.Failed++
		case domain.UploadStatusCancelled:
			stats.Cancelled++
		case domain.UploadStatusDuplicate:
			stats.Duplicate++
		}

		stats.TotalBytes += item.SizeBytes
		switch item.Status {
		case domain.UploadStatusCompleted:
			stats.UploadedBytes += item.SizeBytes
		case domain.UploadStatusUploading:
			stats.UploadedBytes += item.SizeBytes * int64(item.Progress) / 100
		}
	}

	if stats.Total > 0 {
		stats.OverallProgress = int(math.Round(100 * float64(stats.Completed) / float64(stats.Total)))
	}

	now := time.Now()
	q.pruneSamplesLocked(now)
	stats.UploadSpeed = q.speedLocked()

	if stats.UploadSpeed > 0 {
		remaining := stats.TotalBytes - stats.UploadedBytes
		if remaining > 0 {
			stats.EstimatedTimeRemaining = time.Duration(float64(remaining)/stats.UploadSpeed) * time.Second
		}
	}

	return stats
}

// pruneSamplesLocked drops byte-progress samples older than the window
func (q *uploadQueue) pruneSamplesLocked(now time.Time) {
	cutoff := now.Add(-q.cfg.SpeedSampleWindow)
	firstKept := 0
	for firstKept < len(q.samples) && q.samples[firstKept].at.Before(cutoff) {
		firstKept++
	}
	q.samples = q.samples[firstKept:]
}

// speedLocked derives bytes/second from the sample window. Zero when fewer
// than two samples exist or no time has elapsed between them.
func (q *uploadQueue) speedLocked() float64 {
	if len(q.samples) < 2 {
		return 0
	}

	elapsed := q.samples[len(q.samples)-1].at.Sub(q.samples[0].at).Seconds()
	if elapsed <= 0 {
		return 0
	}

	var total int64
	for _, sample := range q.samples {
		total += sample.bytes
	}
	return float64(total) / elapsed
}
