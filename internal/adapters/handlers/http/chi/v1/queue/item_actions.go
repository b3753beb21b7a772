package queue

import (
	"encoding/json"
	"errors"
	"net/http"

	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
)

// RetryItemV1 is the function that handles a manual retry of one item
func (h *HandlerV1) RetryItemV1(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseItemID(w, r)
	if !ok {
		return
	}

	err := h.queueService.Retry(r.Context(), itemID)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, "item is not in a retryable state", http.StatusConflict)
	case err != nil:
		h.logger.Error("error retrying item", "item", itemID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

// CancelItemV1 is the function that handles cancellation of one item
func (h *HandlerV1) CancelItemV1(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseItemID(w, r)
	if !ok {
		return
	}

	err := h.queueService.Cancel(r.Context(), itemID)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("error cancelling item", "item", itemID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

// DeleteItemV1 is the function that handles removal of one item
func (h *HandlerV1) DeleteItemV1(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseItemID(w, r)
	if !ok {
		return
	}

	err := h.queueService.Remove(r.Context(), itemID)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("error removing item", "item", itemID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// V1ResolveDuplicateRequest is the request body for a duplicate resolution
type V1ResolveDuplicateRequest struct {
	Resolution string `json:"resolution"`
}

// ResolveDuplicateV1 is the function that handles a caller's decision on a
// duplicate-parked item
func (h *HandlerV1) ResolveDuplicateV1(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseItemID(w, r)
	if !ok {
		return
	}

	var req V1ResolveDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resolution := port.DuplicateResolution(req.Resolution)
	if resolution != port.DuplicateResolutionSkip && resolution != port.DuplicateResolutionReplace {
		http.Error(w, "resolution must be skip or replace", http.StatusBadRequest)
		return
	}

	err := h.queueService.ResolveDuplicate(r.Context(), itemID, resolution)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, "item is not a duplicate", http.StatusConflict)
	case err != nil:
		h.logger.Error("error resolving duplicate", "item", itemID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}
