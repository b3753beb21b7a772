package queue

import "net/http"

// PauseV1 is the function that handles pausing the scheduler
func (h *HandlerV1) PauseV1(w http.ResponseWriter, r *http.Request) {
	h.queueService.Pause()
	w.WriteHeader(http.StatusAccepted)
}

// ResumeV1 is the function that handles resuming the scheduler
func (h *HandlerV1) ResumeV1(w http.ResponseWriter, r *http.Request) {
	h.queueService.Resume()
	w.WriteHeader(http.StatusAccepted)
}

// RetryAllV1 is the function that handles requeueing every failed item
func (h *HandlerV1) RetryAllV1(w http.ResponseWriter, r *http.Request) {
	if err := h.queueService.RetryAllFailed(r.Context()); err != nil {
		h.logger.Error("error retrying failed items", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// CancelAllV1 is the function that handles cancelling every active item
func (h *HandlerV1) CancelAllV1(w http.ResponseWriter, r *http.Request) {
	if err := h.queueService.CancelAll(r.Context()); err != nil {
		h.logger.Error("error cancelling items", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ClearCompletedV1 is the function that handles dropping completed items
func (h *HandlerV1) ClearCompletedV1(w http.ResponseWriter, r *http.Request) {
	if err := h.queueService.ClearCompleted(r.Context()); err != nil {
		h.logger.Error("error clearing completed items", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearErrorsV1 is the function that handles dropping failed items
func (h *HandlerV1) ClearErrorsV1(w http.ResponseWriter, r *http.Request) {
	if err := h.queueService.ClearErrors(r.Context()); err != nil {
		h.logger.Error("error clearing failed items", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAllV1 is the function that handles dropping the whole queue
func (h *HandlerV1) ClearAllV1(w http.ResponseWriter, r *http.Request) {
	if err := h.queueService.ClearAll(r.Context()); err != nil {
		h.logger.Error("error clearing queue", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
