package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Queue    QueueConfig
	Sync     SyncConfig
	Netmon   NetmonConfig
	Upload   UploadConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
	Intake   IntakeConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// QueueConfig carries the scheduler tunables
type QueueConfig struct {
	MaxConcurrent            int           `envconfig:"QUEUE_MAX_CONCURRENT" default:"3"`
	MaxRetries               int           `envconfig:"QUEUE_MAX_RETRIES" default:"3"`
	RetryDelay               time.Duration `envconfig:"QUEUE_RETRY_DELAY" default:"2s"`
	EnableDuplicateDetection bool          `envconfig:"QUEUE_ENABLE_DUPLICATE_DETECTION" default:"true"`
	AutoRetryOnNetworkError  bool          `envconfig:"QUEUE_AUTO_RETRY_ON_NETWORK_ERROR" default:"true"`
	MaxFileSize              int64         `envconfig:"QUEUE_MAX_FILE_SIZE" default:"52428800"` // 50MB
	AllowedMimeTypes         []string      `envconfig:"QUEUE_ALLOWED_MIME_TYPES" default:"image/jpeg,image/png,image/webp,image/heic,image/heif"`
	// UploadTimeout bounds a single transfer so a stalled connection cannot
	// hold a slot forever. Zero disables the bound.
	UploadTimeout time.Duration `envconfig:"QUEUE_UPLOAD_TIMEOUT" default:"10m"`
	// SpeedSampleWindow is the trailing window used for instantaneous speed.
	SpeedSampleWindow time.Duration `envconfig:"QUEUE_SPEED_SAMPLE_WINDOW" default:"10s"`
}

// Validate rejects unusable tunables at construction time
func (c QueueConfig) Validate() error {
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("QUEUE_MAX_CONCURRENT must be at least 1, got %d", c.MaxConcurrent)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("QUEUE_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("QUEUE_RETRY_DELAY must not be negative, got %s", c.RetryDelay)
	}
	if c.MaxFileSize < 1 {
		return fmt.Errorf("QUEUE_MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	if c.SpeedSampleWindow <= 0 {
		return fmt.Errorf("QUEUE_SPEED_SAMPLE_WINDOW must be positive, got %s", c.SpeedSampleWindow)
	}
	return nil
}

type SyncConfig struct {
	Interval time.Duration `envconfig:"SYNC_INTERVAL" default:"30s"`
}

// NetmonConfig drives the connectivity probe. An empty ProbeURL falls back
// to the upload endpoint at load time, so the monitor tracks reachability of
// the host the queue actually talks to.
type NetmonConfig struct {
	ProbeURL      string        `envconfig:"NETMON_PROBE_URL" default:""`
	ProbeInterval time.Duration `envconfig:"NETMON_PROBE_INTERVAL" default:"10s"`
	ProbeTimeout  time.Duration `envconfig:"NETMON_PROBE_TIMEOUT" default:"5s"`
}

// UploadConfig selects and configures the transfer backend
type UploadConfig struct {
	Backend  string        `envconfig:"UPLOADER" default:"http"` // http | minio
	Endpoint string        `envconfig:"UPLOAD_ENDPOINT" default:"http://localhost:3000/api/photos/upload"`
	Timeout  time.Duration `envconfig:"UPLOAD_HTTP_TIMEOUT" default:"0"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" default:""`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"site-photos"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" default:""`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" default:""`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL           string `envconfig:"NATS_URL" default:""`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"fieldsync.queue"`
	ClientName    string `envconfig:"NATS_CLIENT_NAME" default:"fieldsync-syncd"`
}

type DatabaseConfig struct {
	Path        string        `envconfig:"DB_PATH" default:"fieldsync.db"`
	BusyTimeout time.Duration `envconfig:"DB_BUSY_TIMEOUT" default:"5s"`
}

// IntakeConfig points at an optional local directory scanned at boot for
// photos captured while the daemon was down
type IntakeConfig struct {
	Dir       string `envconfig:"INTAKE_DIR" default:""`
	ProjectID string `envconfig:"INTAKE_PROJECT_ID" default:""`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Queue.Validate(); err != nil {
		return nil, err
	}

	if cfg.Netmon.ProbeURL == "" {
		cfg.Netmon.ProbeURL = cfg.Upload.Endpoint
	}

	return &cfg, nil
}
