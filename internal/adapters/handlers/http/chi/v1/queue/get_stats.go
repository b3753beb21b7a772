package queue

import (
	"encoding/json"
	"net/http"
)

// V1StatsResponse is the response to the stats endpoint
type V1StatsResponse struct {
	Total     int `json:"total"`
	Queued    int `json:"queued"`
	Uploading int `json:"uploading"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
	Duplicate int `json:"duplicate"`

	TotalBytes    int64 `json:"totalBytes"`
	UploadedBytes int64 `json:"uploadedBytes"`

	OverallProgress int `json:"overallProgress"`
	// UploadSpeed is bytes per second; EstimatedTimeRemainingSeconds is zero
	// when the speed is unknown.
	UploadSpeed                   float64 `json:"uploadSpeed"`
	EstimatedTimeRemainingSeconds int64   `json:"estimatedTimeRemainingSeconds"`

	IsProcessing bool `json:"isProcessing"`
	IsPaused     bool `json:"isPaused"`
}

// GetStatsV1 is the function that handles the stats endpoint
func (h *HandlerV1) GetStatsV1(w http.ResponseWriter, r *http.Request) {
	stats := h.queueService.Stats()

	resp := V1StatsResponse{
		Total:                         stats.Total,
		Queued:                        stats.Queued,
		Uploading:                     stats.Uploading,
		Completed:                     stats.Completed,
		Failed:                        stats.Failed,
		Cancelled:                     stats.Cancelled,
		Duplicate:                     stats.Duplicate,
		TotalBytes:                    stats.TotalBytes,
		UploadedBytes:                 stats.UploadedBytes,
		OverallProgress:               stats.OverallProgress,
		UploadSpeed:                   stats.UploadSpeed,
		EstimatedTimeRemainingSeconds: int64(stats.EstimatedTimeRemaining.Seconds()),
		IsProcessing:                  h.queueService.IsProcessing(),
		IsPaused:                      h.queueService.IsPaused(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
