package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"fieldsync/internal/adapters/blob"
	"fieldsync/internal/adapters/eventbroker"
	natsbroker "fieldsync/internal/adapters/eventbroker/nats"
	"fieldsync/internal/adapters/handlers/http/chi"
	queuehandler "fieldsync/internal/adapters/handlers/http/chi/v1/queue"
	"fieldsync/internal/adapters/hasher"
	"fieldsync/internal/adapters/netmon"
	"fieldsync/internal/adapters/repository/sqlite"
	"fieldsync/internal/adapters/uploader/httpupload"
	"fieldsync/internal/adapters/uploader/minio"
	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"fieldsync/internal/core/service/dedupe"
	"fieldsync/internal/core/service/queue"
	syncservice "fieldsync/internal/core/service/sync"

	"github.com/google/uuid"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open applies pending migrations at boot.
	db, err := sqlite.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("queue store ready", "path", cfg.Database.Path)

	uploader, err := initUploader(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init uploader", "error", err)
		os.Exit(1)
	}

	events, err := initEvents(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	store := sqlite.NewQueueStore(db)
	dedupeService := dedupe.NewDedupeService(cfg.Queue.EnableDuplicateDetection)

	queueService := queue.NewUploadQueue(
		cfg.Queue,
		store,
		uploader,
		hasher.New(),
		dedupeService,
		events,
		queue.Listeners{
			OnUploadComplete: func(item domain.QueueItem, photo domain.UploadedPhoto) {
				logger.Info("upload complete", "item", item.ID, "photo", photo.ID)
			},
			OnUploadError: func(item domain.QueueItem, err error) {
				logger.Warn("upload failed", "item", item.ID, "error", err)
			},
			OnDuplicateDetected: func(item domain.QueueItem, match domain.DuplicateMatch) {
				logger.Info("duplicate detected",
					"item", item.ID, "original", match.OriginalID, "confidence", match.Confidence)
			},
			OnRejected: func(filename string, reason error) {
				logger.Warn("submission rejected", "filename", filename, "reason", reason)
			},
		},
		logger,
	)
	defer func() {
		if err := queueService.Close(); err != nil {
			logger.Error("failed to close queue", "error", err)
		}
	}()

	monitor := netmon.NewMonitor(cfg.Netmon, logger)
	defer func() {
		if err := monitor.Close(); err != nil {
			logger.Error("failed to close network monitor", "error", err)
		}
	}()

	syncService := syncservice.NewSyncService(
		cfg.Sync,
		cfg.Queue,
		store,
		uploader,
		dedupeService,
		monitor,
		events,
		func(item domain.QueueItem) (domain.BlobSource, error) {
			if item.LocalPath == "" {
				return nil, domain.ErrContentUnavailable
			}
			return blob.NewFileSource(item.LocalPath)
		},
		func(id uuid.UUID) bool {
			item, err := queueService.Item(id)
			return err == nil && !item.Status.IsTerminal()
		},
		syncservice.Callbacks{
			OnSyncComplete: func(uploaded int) {
				logger.Info("sync pass complete", "uploaded", uploaded)
			},
			OnSyncError: func(err error) {
				logger.Error("sync pass failed", "error", err)
			},
		},
		logger,
	)

	if cfg.Intake.Dir != "" {
		if err := enqueueIntakeDir(ctx, cfg.Intake, queueService, logger); err != nil {
			logger.Error("failed to scan intake directory", "error", err)
		}
	}

	//http
	queueHandler := queuehandler.NewQueueHandlerV1(queueService, logger)
	router := chi.NewRouter(logger, queueHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting status api", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start status api", "error", servErr)
			stop()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("resynchronizer started", "interval", cfg.Sync.Interval)
		syncService.Run(ctx)
		logger.Info("resynchronizer stopped")
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down daemon")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown status api", "error", err)
	} else {
		logger.Info("status api shutdown complete")
	}

	wg.Wait()
	logger.Info("daemon shutdown complete")

}

// initUploader selects the transfer backend from config
func initUploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.Uploader, error) {
	switch cfg.Upload.Backend {
	case "http":
		return httpupload.NewUploader(cfg.Upload, logger), nil
	case "minio":
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}

// initEvents returns the JetStream publisher, or a noop when no NATS URL is
// configured
func initEvents(cfg config.NATSConfig, logger *slog.Logger) (port.EventPublisher, error) {
	if cfg.URL == "" {
		return eventbroker.NewNoopPublisher(), nil
	}
	return natsbroker.NewPublisher(cfg, logger)
}

// enqueueIntakeDir submits every regular file found in the intake directory,
// covering photos captured while the daemon was down
func enqueueIntakeDir(ctx context.Context, cfg config.IntakeConfig, service port.QueueService, logger *slog.Logger) error {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to read intake dir %s: %w", cfg.Dir, err)
	}

	var submissions []port.Submission
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(cfg.Dir, entry.Name())
		source, err := blob.NewFileSource(path)
		if err != nil {
			logger.Warn("skipping unreadable intake file", "path", path, "error", err)
			continue
		}

		contentType := mime.TypeByExtension(filepath.Ext(entry.Name()))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		submissions = append(submissions, port.Submission{
			Filename:    entry.Name(),
			ContentType: contentType,
			ProjectID:   cfg.ProjectID,
			LocalPath:   path,
			Blob:        source,
		})
	}

	if len(submissions) == 0 {
		return nil
	}

	logger.Info("enqueueing intake files", "count", len(submissions), "dir", cfg.Dir)
	return service.Add(ctx, submissions)
}
