package port

import (
	"context"
	"fieldsync/internal/core/domain"
)

// Hasher is an interface to define content fingerprinting. The blob must
// remain readable after hashing so the same bytes can still be uploaded.
type Hasher interface {
	Hash(ctx context.Context, blob domain.BlobSource) (string, error)
}
