package queue

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fieldsync/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1QueueItemResponse is the wire shape of one queue item
type V1QueueItemResponse struct {
	ID            string                `json:"id"`
	Filename      string                `json:"filename"`
	SizeBytes     int64                 `json:"sizeBytes"`
	ContentType   string                `json:"contentType"`
	ProjectID     string                `json:"projectId"`
	Status        string                `json:"status"`
	Progress      int                   `json:"progress"`
	RetryCount    int                   `json:"retryCount"`
	Error         string                `json:"error,omitempty"`
	FileHash      string                `json:"fileHash,omitempty"`
	DuplicateOfID *string               `json:"duplicateOfId,omitempty"`
	UploadedPhoto *domain.UploadedPhoto `json:"uploadedPhoto,omitempty"`
	AddedAt       time.Time             `json:"addedAt"`
	StartedAt     *time.Time            `json:"startedAt,omitempty"`
	CompletedAt   *time.Time            `json:"completedAt,omitempty"`
}

func toItemResponse(item domain.QueueItem) V1QueueItemResponse {
	resp := V1QueueItemResponse{
		ID:            item.ID.String(),
		Filename:      item.Filename,
		SizeBytes:     item.SizeBytes,
		ContentType:   item.ContentType,
		ProjectID:     item.ProjectID,
		Status:        string(item.Status),
		Progress:      item.Progress,
		RetryCount:    item.RetryCount,
		Error:         item.Error,
		FileHash:      item.FileHash,
		UploadedPhoto: item.UploadedPhoto,
		AddedAt:       item.AddedAt,
		StartedAt:     item.StartedAt,
		CompletedAt:   item.CompletedAt,
	}
	if item.DuplicateOfID != nil {
		original := item.DuplicateOfID.String()
		resp.DuplicateOfID = &original
	}
	return resp
}

// GetItemsV1 is the function that handles listing queue items
func (h *HandlerV1) GetItemsV1(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")

	items := h.queueService.Items()
	resp := make([]V1QueueItemResponse, 0, len(items))
	for _, item := range items {
		if project != "" && item.ProjectID != project {
			continue
		}
		resp = append(resp, toItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// GetItemV1 is the function that handles fetching one queue item
func (h *HandlerV1) GetItemV1(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseItemID(w, r)
	if !ok {
		return
	}

	item, err := h.queueService.Item(itemID)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error fetching item", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := toItemResponse(*item)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// parseItemID extracts and validates the itemID route parameter
func (h *HandlerV1) parseItemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "itemID")
	if raw == "" {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	itemID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return itemID, true
}
