package httpupload

import (
	"context"
	"encoding/json"
	"fieldsync/internal/config"
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
)

// Uploader posts one photo per request as multipart/form-data and decodes the
// {success, photo|error} envelope returned by the photo API.
type Uploader struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewUploader returns an Uploader that implements port.Uploader
func NewUploader(cfg config.UploadConfig, logger *slog.Logger) *Uploader {
	return &Uploader{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

type uploadEnvelope struct {
	Success bool                  `json:"success"`
	Photo   *domain.UploadedPhoto `json:"photo,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Upload streams the blob to the endpoint, reporting sent bytes as the body
// is consumed by the transport. Cancelling ctx aborts the request.
func (u *Uploader) Upload(ctx context.Context, req port.UploadRequest, progress port.ProgressFunc) (*domain.UploadedPhoto, error) {
	blobReader, err := req.Blob.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrContentUnavailable, err)
	}
	defer blobReader.Close()

	pipeReader, pipeWriter := io.Pipe()
	form := multipart.NewWriter(pipeWriter)
	total := req.Blob.Size()

	go func() {
		err := writeForm(form, req, blobReader, total, progress)
		form.Close()
		pipeWriter.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pipeReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.NetworkError{Err: fmt.Errorf("upload request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("failed to read upload response: %w", err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &domain.NetworkError{Err: fmt.Errorf("upload failed with status %d", resp.StatusCode)}
	}

	var envelope uploadEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode upload response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success || envelope.Photo == nil {
		msg := envelope.Error
		if msg == "" {
			msg = fmt.Sprintf("upload rejected with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("upload rejected: %s", msg)
	}

	u.logger.Info("upload completed", "item", req.ItemID, "filename", req.Filename, "photo", envelope.Photo.ID)
	return envelope.Photo, nil
}

func writeForm(form *multipart.Writer, req port.UploadRequest, blob io.Reader, total int64, progress port.ProgressFunc) error {
	fields := map[string]string{
		"projectId": req.ProjectID,
	}
	if req.CategoryID != nil {
		fields["categoryId"] = *req.CategoryID
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Latitude != nil {
		fields["latitude"] = strconv.FormatFloat(*req.Latitude, 'f', -1, 64)
	}
	if req.Longitude != nil {
		fields["longitude"] = strconv.FormatFloat(*req.Longitude, 'f', -1, 64)
	}

	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	part, err := form.CreateFormFile("file", req.Filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}

	counter := &countingWriter{dest: part, total: total, progress: progress}
	if _, err := io.Copy(counter, blob); err != nil {
		return fmt.Errorf("failed to stream file content: %w", err)
	}
	return nil
}

// countingWriter reports cumulative sent bytes as the transport drains the body
type countingWriter struct {
	dest     io.Writer
	sent     int64
	total    int64
	progress port.ProgressFunc
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.dest.Write(p)
	c.sent += int64(n)
	if c.progress != nil && n > 0 {
		c.progress(c.sent, c.total)
	}
	return n, err
}
