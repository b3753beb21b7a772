package minio

import (
	"context"
	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter uploads photos straight into a bucket, bypassing the photo API.
// Used for deployments where the server ingests objects from storage events.
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// Upload puts the blob at <projectId>/<itemId>/<filename> with the context
// fields attached as object metadata
func (a *Adapter) Upload(ctx context.Context, req port.UploadRequest, progress port.ProgressFunc) (*domain.UploadedPhoto, error) {
	reader, err := req.Blob.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrContentUnavailable, err)
	}
	defer reader.Close()

	objectKey := fmt.Sprintf("%s/%s/%s", req.ProjectID, req.ItemID, req.Filename)

	metadata := map[string]string{
		"Project-Id": req.ProjectID,
	}
	if req.CategoryID != nil {
		metadata["Category-Id"] = *req.CategoryID
	}
	if req.Title != nil {
		metadata["Title"] = *req.Title
	}
	if req.Latitude != nil && req.Longitude != nil {
		metadata["Geo"] = fmt.Sprintf("%f,%f", *req.Latitude, *req.Longitude)
	}

	total := req.Blob.Size()
	opts := minio.PutObjectOptions{
		ContentType:  req.ContentType,
		UserMetadata: metadata,
		Progress:     &progressReader{total: total, progress: progress},
	}

	info, err := a.client.PutObject(ctx, a.config.BucketName, objectKey, reader, total, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.NetworkError{Err: fmt.Errorf("failed to put object: %w", err)}
	}

	a.logger.Info("object uploaded", "bucket", a.config.BucketName, "key", objectKey, "size", info.Size)

	return &domain.UploadedPhoto{
		ID:         objectKey,
		ProjectID:  req.ProjectID,
		Filename:   req.Filename,
		URL:        fmt.Sprintf("%s/%s/%s", a.client.EndpointURL(), a.config.BucketName, objectKey),
		SizeBytes:  info.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// progressReader satisfies the io.Reader the minio SDK polls for sent bytes
type progressReader struct {
	sent     int64
	total    int64
	progress port.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n := len(b)
	p.sent += int64(n)
	if p.progress != nil {
		p.progress(p.sent, p.total)
	}
	return n, nil
}
