package dedupe

import (
	"fieldsync/internal/core/domain"
	"fieldsync/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

type knownEntry struct {
	id       uuid.UUID
	filename string
}

type dedupeService struct {
	enabled bool

	mu    sync.RWMutex
	known map[string]knownEntry
}

// NewDedupeService creates a new dedupe service. When disabled, every check
// reports no duplicate and nothing is ever registered.
func NewDedupeService(enabled bool) port.DedupeService {
	return &dedupeService{
		enabled: enabled,
		known:   make(map[string]knownEntry),
	}
}

func (d *dedupeService) Enabled() bool {
	return d.enabled
}

// Register records a successfully uploaded content hash. Entries live for
// the life of the process; the persistent store is the durable record.
func (d *dedupeService) Register(hash string, id uuid.UUID, filename string) {
	if !d.enabled || hash == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// First completion wins; later identical uploads never overwrite it.
	if _, ok := d.known[hash]; ok {
		return
	}
	d.known[hash] = knownEntry{id: id, filename: filename}
}

// Check looks the hash up in the known table first, then scans the live
// non-cancelled items for an in-flight match.
func (d *dedupeService) Check(hash string, live []domain.QueueItem) domain.DuplicateMatch {
	if !d.enabled || hash == "" {
		return domain.DuplicateMatch{}
	}

	d.mu.RLock()
	entry, ok := d.known[hash]
	d.mu.RUnlock()

	if ok {
		return domain.DuplicateMatch{
			IsDuplicate:      true,
			OriginalID:       entry.id,
			OriginalFilename: entry.filename,
			Confidence:       1.0,
		}
	}

	for _, item := range live {
		if item.Status == domain.UploadStatusCancelled || item.Status == domain.UploadStatusDuplicate {
			continue
		}
		if item.FileHash != "" && item.FileHash == hash {
			return domain.DuplicateMatch{
				IsDuplicate:      true,
				OriginalID:       item.ID,
				OriginalFilename: item.Filename,
				Confidence:       1.0,
			}
		}
	}

	return domain.DuplicateMatch{}
}
