package queue

import (
	"log/slog"

	"fieldsync/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 queue routes
type HandlerV1 struct {
	queueService port.QueueService
	logger       *slog.Logger
}

// NewQueueHandlerV1 creates HandlerV1
func NewQueueHandlerV1(service port.QueueService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		queueService: service,
		logger:       logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/items", h.GetItemsV1)
	router.Get("/items/{itemID}", h.GetItemV1)
	router.Get("/stats", h.GetStatsV1)
	router.Post("/items/{itemID}/retry", h.RetryItemV1)
	router.Post("/items/{itemID}/cancel", h.CancelItemV1)
	router.Post("/items/{itemID}/resolve", h.ResolveDuplicateV1)
	router.Delete("/items/{itemID}", h.DeleteItemV1)
	router.Post("/pause", h.PauseV1)
	router.Post("/resume", h.ResumeV1)
	router.Post("/retry-all", h.RetryAllV1)
	router.Post("/cancel-all", h.CancelAllV1)
	router.Post("/clear-completed", h.ClearCompletedV1)
	router.Post("/clear-errors", h.ClearErrorsV1)
	router.Post("/clear", h.ClearAllV1)

	return router
}
